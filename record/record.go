package record

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
	yearLayout  = "2006"

	// DefaultFileName 签到记录文件名，保存在程序同目录下
	DefaultFileName = "tikhub_checkin_record.json"
)

// beijingZone 站点按北京时间（UTC+8）结算签到日，与运行机器的时区无关。
var beijingZone = time.FixedZone("CST", 8*60*60)

// BeijingNow 返回当前的北京时间
func BeijingNow() time.Time {
	return time.Now().In(beijingZone)
}

// MonthRecord 单个月份的签到记录
type MonthRecord struct {
	Total int      `json:"total"`
	Days  []string `json:"days"`
}

// YearRecord 单个年份的签到记录
type YearRecord struct {
	Total  int                     `json:"total"`
	Months map[string]*MonthRecord `json:"months"`
}

// Record 分层统计的签到记录：总计 → 年 → 月 → 具体日期。
// 各层 total 始终等于其下唯一日期的数量，同一天最多出现一次。
type Record struct {
	Total int                    `json:"total"`
	Years map[string]*YearRecord `json:"years"`
}

// NewRecord 创建一个空的签到记录
func NewRecord() *Record {
	return &Record{Years: make(map[string]*YearRecord)}
}

// Stats 面向通知展示的只读统计快照
type Stats struct {
	TotalDays    int  `json:"total_days"`
	MonthDays    int  `json:"month_days"`
	IsFirstToday bool `json:"is_first_today"`
}

// Ledger 负责签到记录的加载、幂等更新和持久化
type Ledger struct {
	path string
}

// DefaultPath 返回默认的记录文件路径（程序同目录）
func DefaultPath() string {
	exe, err := os.Executable()
	if err != nil {
		return DefaultFileName
	}
	return filepath.Join(filepath.Dir(exe), DefaultFileName)
}

func NewLedger(path string) *Ledger {
	if path == "" {
		path = DefaultPath()
	}
	return &Ledger{path: path}
}

// load 从磁盘加载记录。文件不存在或内容损坏时返回全新的空记录，
// 损坏的文件会在下一次 Update 写回时被修复，绝不中断签到流程。
func (l *Ledger) load() *Record {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logrus.WithError(err).WithField("path", l.path).Warn("读取签到记录失败，使用空记录")
		}
		return NewRecord()
	}

	rec := NewRecord()
	if err := json.Unmarshal(data, rec); err != nil {
		logrus.WithError(err).WithField("path", l.path).Warn("签到记录文件损坏，重建空记录")
		return NewRecord()
	}
	if rec.Years == nil {
		rec.Years = make(map[string]*YearRecord)
	}
	return rec
}

// Update 把 today 记入签到记录。同一天重复调用不会产生任何变化（幂等），
// 新增时三层 total 一起加一。无论是否新增，都会把完整结构重写回磁盘，
// 以修复之前可能存在的损坏内容。写盘失败只记日志，记录本身仍然返回。
func (l *Ledger) Update(today time.Time) *Record {
	rec := l.load()

	day := today.Format(dayLayout)
	month := today.Format(monthLayout)
	year := today.Format(yearLayout)

	yr, ok := rec.Years[year]
	if !ok {
		yr = &YearRecord{Months: make(map[string]*MonthRecord)}
		rec.Years[year] = yr
	}
	if yr.Months == nil {
		yr.Months = make(map[string]*MonthRecord)
	}

	mr, ok := yr.Months[month]
	if !ok {
		mr = &MonthRecord{}
		yr.Months[month] = mr
	}

	if !containsDay(mr.Days, day) {
		mr.Days = append(mr.Days, day)
		mr.Total++
		yr.Total++
		rec.Total++
		logrus.Infof("📊 签到记录已更新: 总计%d天，本月%d天", rec.Total, len(mr.Days))
	}

	if err := l.save(rec); err != nil {
		logrus.WithError(err).WithField("path", l.path).Warn("保存签到记录失败")
	}

	return rec
}

// Statistics 返回 today 所在月份的只读统计，不修改任何状态
func (l *Ledger) Statistics(today time.Time) Stats {
	rec := l.load()

	day := today.Format(dayLayout)
	month := today.Format(monthLayout)
	year := today.Format(yearLayout)

	stats := Stats{TotalDays: rec.Total}

	yr, ok := rec.Years[year]
	if !ok {
		return stats
	}
	mr, ok := yr.Months[month]
	if !ok {
		return stats
	}

	stats.MonthDays = len(mr.Days)
	stats.IsFirstToday = containsDay(mr.Days, day)
	return stats
}

// save 先写临时文件再重命名，避免写盘中断留下半截 JSON
func (l *Ledger) save(rec *Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}

	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, l.path)
}

func containsDay(days []string, day string) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}
