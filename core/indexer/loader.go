package indexer

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/Malowking/flowpilot/core/chunker"
	"github.com/Malowking/flowpilot/core/config"
	"github.com/Malowking/flowpilot/core/errors"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/xuri/excelize/v2"
)

// supportedExtensions 支持的文件类型
var supportedExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".xlsx": true,
	".csv":  true,
}

// LoadFile 读取单个文件并切分为chunks
// 纯文本走字符窗口切分，表格类按行切分以保留字段/取值对应关系
func LoadFile(path string, conf *config.IndexerConfig) (*Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	filename := filepath.Base(path)

	var chunks []string
	var err error
	switch ext {
	case ".txt", ".md":
		chunks, err = loadTextChunks(path, conf)
	case ".xlsx":
		chunks, err = loadXlsxRowChunks(path)
	case ".csv":
		chunks, err = loadCsvRowChunks(path)
	default:
		return nil, errors.Newf(errors.ErrUnsupportedFile, "unsupported file type: %s", ext)
	}
	if err != nil {
		return nil, err
	}

	return &Document{
		Source: path,
		Title:  filename,
		Metadata: map[string]interface{}{
			"type": ext,
		},
		Chunks: chunks,
	}, nil
}

// IngestDir 索引目录下所有支持的文件，返回成功索引的文档数
// Office锁文件（~$开头）跳过
func (ix *Indexer) IngestDir(ctx context.Context, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, errors.Newf(errors.ErrIngestionFailed, "failed to read folder %s: %v", dir, err)
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, "~$") {
			continue
		}
		if !supportedExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}

		path := filepath.Join(dir, name)
		doc, err := LoadFile(path, ix.conf)
		if err != nil {
			return count, err
		}
		doc.Metadata["folder"] = dir

		if _, err := ix.Ingest(ctx, doc); err != nil {
			if errors.IsCode(err, errors.ErrIngestionFailed) {
				// 空文件等无可用内容的情况：跳过而不是中断整个目录
				g.Log().Warningf(ctx, "Skipping %s: %v", path, err)
				continue
			}
			return count, err
		}
		count++
	}
	return count, nil
}

func loadTextChunks(path string, conf *config.IndexerConfig) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Newf(errors.ErrIngestionFailed, "failed to read file %s: %v", path, err)
	}
	chunkSize := chunker.DefaultChunkSize
	overlap := chunker.DefaultOverlap
	if conf != nil {
		if conf.ChunkSize > 0 {
			chunkSize = conf.ChunkSize
		}
		if conf.OverlapSize > 0 {
			overlap = conf.OverlapSize
		}
	}
	return chunker.ChunkText(string(data), chunkSize, overlap), nil
}

func loadXlsxRowChunks(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Newf(errors.ErrIngestionFailed, "failed to open xlsx %s: %v", path, err)
	}
	defer f.Close()

	var chunks []string
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			// 单个sheet读取失败跳过
			continue
		}
		chunks = append(chunks, chunker.RowChunks(chunker.Table{
			Name: sheetName,
			Rows: rows,
		})...)
	}
	return chunks, nil
}

func loadCsvRowChunks(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Newf(errors.ErrIngestionFailed, "failed to open csv %s: %v", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Newf(errors.ErrIngestionFailed, "failed to parse csv %s: %v", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return chunker.RowChunks(chunker.Table{Name: name, Rows: rows}), nil
}
