package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"skill_barter/config"

	"github.com/go-sql-driver/mysql"
)

var (
	DB *sql.DB // 数据库连接
)

// ErrDSNMissing 未配置数据库连接串
var ErrDSNMissing = errors.New("database DSN is not configured")

// InitMySQLWithConfig 使用配置初始化数据库连接池
func InitMySQLWithConfig(cfg *config.Config) error {
	if cfg.DB.DSN == "" {
		return ErrDSNMissing
	}

	// parseTime 必须开启，仓库层直接扫描 time.Time
	dsnCfg, err := mysql.ParseDSN(cfg.DB.DSN)
	if err != nil {
		return err
	}
	dsnCfg.ParseTime = true

	conn, err := sql.Open("mysql", dsnCfg.FormatDSN())
	if err != nil {
		return err
	}

	// 从配置读取连接池参数，提供默认值保护
	maxOpenConns := cfg.DB.MaxOpenConns
	if maxOpenConns <= 0 {
		maxOpenConns = 50
	}

	maxIdleConns := cfg.DB.MaxIdleConns
	if maxIdleConns <= 0 {
		maxIdleConns = 10
	}

	connMaxLifetime := cfg.DB.ConnMaxLifetime
	if connMaxLifetime <= 0 {
		connMaxLifetime = 60 // 分钟
	}

	conn.SetMaxOpenConns(maxOpenConns)
	conn.SetMaxIdleConns(maxIdleConns)
	conn.SetConnMaxLifetime(time.Duration(connMaxLifetime) * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return err
	}

	DB = conn
	return nil
}

// Close 关闭数据库连接
func Close() error {
	if DB == nil {
		return nil
	}
	return DB.Close()
}

// IsDuplicateKey 判断是否为 MySQL 唯一键冲突（1062）
func IsDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
