// Package migrate 顺序执行 db/migrations 下的 *_up.sql
package migrate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Runner 迁移执行器，FS 非空时优先于 Dir
type Runner struct {
	Dir    string
	FS     fs.FS
	Logger *zap.Logger
}

// Migration 一个向上迁移文件
type Migration struct {
	Version int64
	Path    string
}

// EnsureTable 保证 schema_migrations 表存在
func EnsureTable(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
        version BIGINT PRIMARY KEY,
        applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`)
	return err
}

// AppliedVersions 已应用版本
func AppliedVersions(ctx context.Context, db *pgxpool.Pool) (map[int64]bool, error) {
	rows, err := db.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := make(map[int64]bool)
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		res[v] = true
	}
	return res, rows.Err()
}

func (r Runner) fsys() (fs.FS, error) {
	if r.FS != nil {
		return r.FS, nil
	}
	if r.Dir == "" {
		return nil, errors.New("migrations dir is empty")
	}
	return os.DirFS(r.Dir), nil
}

// Discover 扫描 *_up.sql，按文件名前缀数字排序；版本重复视为错误
func (r Runner) Discover() ([]Migration, error) {
	fsys, err := r.fsys()
	if err != nil {
		return nil, err
	}
	var files []Migration
	seen := make(map[int64]string)
	err = fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := path.Base(p)
		if !strings.HasSuffix(name, "_up.sql") {
			return nil
		}
		prefix, _, _ := strings.Cut(name, "_")
		ver, err := strconv.ParseInt(prefix, 10, 64)
		if err != nil {
			// 非数字前缀的文件忽略
			return nil
		}
		if prev, ok := seen[ver]; ok {
			return fmt.Errorf("duplicate migration version %d: %s and %s", ver, prev, p)
		}
		seen[ver] = p
		files = append(files, Migration{Version: ver, Path: p})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Version < files[j].Version })
	return files, nil
}

// Pending 过滤出未应用的迁移
func Pending(all []Migration, applied map[int64]bool) []Migration {
	var out []Migration
	for _, m := range all {
		if !applied[m.Version] {
			out = append(out, m)
		}
	}
	return out
}

// Up 执行未应用的向上迁移，每个文件一个事务
func (r Runner) Up(ctx context.Context, db *pgxpool.Pool) error {
	fsys, err := r.fsys()
	if err != nil {
		return err
	}
	ups, err := r.Discover()
	if err != nil {
		return err
	}
	if err := EnsureTable(ctx, db); err != nil {
		return err
	}
	applied, err := AppliedVersions(ctx, db)
	if err != nil {
		return err
	}
	for _, m := range Pending(ups, applied) {
		content, err := fs.ReadFile(fsys, m.Path)
		if err != nil {
			return err
		}
		tx, err := db.Begin(ctx)
		if err != nil {
			return err
		}
		_, execErr := tx.Exec(ctx, string(content))
		if execErr == nil {
			_, execErr = tx.Exec(ctx, `INSERT INTO schema_migrations(version, applied_at) VALUES($1,$2)`, m.Version, time.Now())
		}
		if execErr != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("migration %s: %w", m.Path, execErr)
		}
		if err := tx.Commit(ctx); err != nil {
			return err
		}
		if r.Logger != nil {
			r.Logger.Info("migration applied", zap.Int64("version", m.Version), zap.String("file", m.Path))
		}
	}
	return nil
}
