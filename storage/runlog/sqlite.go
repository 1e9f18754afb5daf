package runlog

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02 15:04:05"

// Entry 一次签到运行的历史记录
type Entry struct {
	RunAt     time.Time `json:"run_at"`
	CivilDate string    `json:"civil_date"`
	Outcome   string    `json:"outcome"`
	Message   string    `json:"message"`
	Reward    string    `json:"reward,omitempty"`
}

// Store 签到运行历史的 sqlite 存储。与 JSON 签到记录不同，
// 这里每次运行都追加一行（包括失败的），方便排查历史问题。
type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("数据库路径不能为空")
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "创建数据库目录失败")
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "打开 sqlite 数据库失败")
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	createStmt := `CREATE TABLE IF NOT EXISTS checkin_runs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        run_at TEXT NOT NULL,
        civil_date TEXT NOT NULL,
        outcome TEXT NOT NULL,
        message TEXT,
        reward TEXT
    )`
	if _, err := s.db.Exec(createStmt); err != nil {
		return errors.Wrap(err, "初始化 checkin_runs 表失败")
	}
	return nil
}

// Append 追加一条运行记录
func (s *Store) Append(e Entry) error {
	_, err := s.db.Exec(
		`INSERT INTO checkin_runs (run_at, civil_date, outcome, message, reward) VALUES (?, ?, ?, ?, ?)`,
		e.RunAt.Format(timeLayout), e.CivilDate, e.Outcome, e.Message, e.Reward,
	)
	if err != nil {
		return errors.Wrap(err, "写入运行记录失败")
	}
	return nil
}

// Recent 返回最近的 limit 条运行记录，新的在前
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT run_at, civil_date, outcome, message, reward FROM checkin_runs ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, errors.Wrap(err, "查询运行记录失败")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var runAt string
		var message, reward sql.NullString
		if err := rows.Scan(&runAt, &e.CivilDate, &e.Outcome, &message, &reward); err != nil {
			return nil, errors.Wrap(err, "读取运行记录失败")
		}
		e.RunAt, _ = time.Parse(timeLayout, runAt)
		e.Message = message.String
		e.Reward = reward.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
