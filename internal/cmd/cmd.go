package cmd

import (
	"context"

	"github.com/Malowking/flowpilot/internal/controller/flowpilot"
	"github.com/Malowking/flowpilot/internal/service"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/gogf/gf/v2/net/ghttp"
	"github.com/gogf/gf/v2/os/gcmd"
)

var (
	Main = gcmd.Command{
		Name:  "main",
		Usage: "main",
		Brief: "start http server",
		Func: func(ctx context.Context, parser *gcmd.Parser) (err error) {
			s := g.Server()

			s.Group("/api", func(group *ghttp.RouterGroup) {
				group.Middleware(MiddlewareHandlerResponse, ghttp.MiddlewareCORS)
				group.Bind(
					flowpilot.NewV1(),
				)
			})
			s.Run()
			return nil
		},
	}

	// Ingest 命令行批量索引:flowpilot ingest -d ./knowledge
	Ingest = gcmd.Command{
		Name:  "ingest",
		Usage: "ingest -d <dir>",
		Brief: "index all supported files in a knowledge folder",
		Arguments: []gcmd.Argument{
			{Name: "dir", Short: "d", Brief: "knowledge folder path"},
		},
		Func: func(ctx context.Context, parser *gcmd.Parser) (err error) {
			dir := parser.GetOpt("dir", "./knowledge").String()

			ix, err := service.GetIndexer()
			if err != nil {
				return err
			}

			count, err := ix.IngestDir(ctx, dir)
			if err != nil {
				return err
			}

			g.Log().Infof(ctx, "indexed %d documents from %s", count, dir)
			return nil
		},
	}
)

func init() {
	if err := Main.AddCommand(&Ingest); err != nil {
		panic(err)
	}
}
