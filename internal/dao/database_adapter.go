package dao

import (
	"fmt"
	"time"

	"github.com/gogf/gf/v2/database/gdb"
	"github.com/gogf/gf/v2/frame/g"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	gormModel "github.com/Malowking/flowpilot/internal/model/gorm"
)

// dialectorFor 根据GoFrame的数据库节点构造gorm方言
// gorm只负责会话/消息/文档的关系表,向量表走pgx单独管理
func dialectorFor(node *gdb.ConfigNode) (gorm.Dialector, error) {
	switch node.Type {
	case "mysql":
		charset := node.Charset
		if charset == "" {
			charset = "utf8mb4"
		}
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
			node.User, node.Pass, node.Host, node.Port, node.Name, charset)
		return mysql.Open(dsn), nil
	case "pgsql", "postgresql", "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			node.Host, node.User, node.Pass, node.Name, node.Port)
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", node.Type)
	}
}

// initDatabase 复用GoFrame配置节点建立gorm连接并完成迁移
func initDatabase() (*gorm.DB, error) {
	node := g.DB().GetConfig()

	dialector, err := dialectorFor(node)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %v", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err = gormModel.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database tables: %v", err)
	}

	return db, nil
}
