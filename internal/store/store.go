// 包 store：PostgreSQL 出图统计访问层；不参与渲染流水线
package store

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"

	"showme/internal/logger"
)

// Store：数据库访问入口，持有连接池并提供统计读写
type Store struct {
	db *sql.DB
}

func AttachDB(db *sql.DB) *Store { return &Store{db: db} }

// Open：使用 DSN 打开数据库连接并配置连接池参数
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	return &Store{db: db}, nil
}

// Close：关闭数据库连接
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// IncrRender：成功出图后递增累计与当日计数
// 约束：统计失败静默，不阻塞主流程
func (s *Store) IncrRender(ctx context.Context) error {
	_, _ = s.db.ExecContext(ctx, "UPDATE _showme_stats_total SET total_renders=total_renders+1 WHERE id=1")
	_, _ = s.db.ExecContext(ctx, "INSERT INTO _showme_stats_daily(day, renders) VALUES(current_date, 1) ON CONFLICT (day) DO UPDATE SET renders=_showme_stats_daily.renders+1")
	logger.L().Debug("stats_incr")
	return nil
}

// Totals：累计与当日出图次数
type Totals struct {
	Total int64
	Today int64
}

// GetTotals：读取累计与当日计数，用于 /stats 返回
func (s *Store) GetTotals(ctx context.Context) (*Totals, error) {
	var t Totals
	row := s.db.QueryRowContext(ctx, "SELECT total_renders FROM _showme_stats_total WHERE id=1")
	_ = row.Scan(&t.Total)
	row2 := s.db.QueryRowContext(ctx, "SELECT renders FROM _showme_stats_daily WHERE day=current_date")
	_ = row2.Scan(&t.Today)
	logger.L().Debug("stats_totals", "total", t.Total, "today", t.Today)
	return &t, nil
}
