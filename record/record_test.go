package record

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02", s, beijingZone)
	require.NoError(t, err)
	return d
}

func tempLedger(t *testing.T) *Ledger {
	t.Helper()
	return NewLedger(filepath.Join(t.TempDir(), DefaultFileName))
}

func TestUpdate_幂等(t *testing.T) {
	l := tempLedger(t)
	day := mustDate(t, "2024-03-05")

	rec := l.Update(day)
	assert.Equal(t, 1, rec.Total)

	// 同一天再次签到，记录完全不变
	rec = l.Update(day)
	assert.Equal(t, 1, rec.Total)
	assert.Equal(t, 1, rec.Years["2024"].Total)
	assert.Equal(t, 1, rec.Years["2024"].Months["2024-03"].Total)
	assert.Equal(t, []string{"2024-03-05"}, rec.Years["2024"].Months["2024-03"].Days)
}

func TestUpdate_分层计数一致(t *testing.T) {
	l := tempLedger(t)

	for _, s := range []string{"2023-12-30", "2023-12-31", "2024-01-01", "2024-01-02", "2024-02-01"} {
		l.Update(mustDate(t, s))
	}

	rec := l.Update(mustDate(t, "2024-02-02"))

	// 总计 = 各年之和，年计 = 各月之和 = 去重后的天数
	sumYears := 0
	for _, yr := range rec.Years {
		sumMonths := 0
		days := 0
		for _, mr := range yr.Months {
			sumMonths += mr.Total
			days += len(mr.Days)
			assert.Equal(t, len(mr.Days), mr.Total)
		}
		assert.Equal(t, sumMonths, yr.Total)
		assert.Equal(t, days, yr.Total)
		sumYears += yr.Total
	}
	assert.Equal(t, sumYears, rec.Total)
	assert.Equal(t, 6, rec.Total)
}

func TestUpdate_文件损坏时重建(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("{not valid json"), 0o644))

	l := NewLedger(path)
	rec := l.Update(mustDate(t, "2024-03-05"))
	assert.Equal(t, 1, rec.Total)

	// 落盘的文件已经被修复成合法 JSON
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk Record
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, 1, onDisk.Total)
}

func TestStatistics(t *testing.T) {
	l := tempLedger(t)
	today := mustDate(t, "2024-03-05")

	stats := l.Statistics(today)
	assert.Equal(t, Stats{}, stats)

	l.Update(mustDate(t, "2024-03-04"))
	l.Update(today)
	l.Update(mustDate(t, "2024-02-10"))

	stats = l.Statistics(today)
	assert.Equal(t, 3, stats.TotalDays)
	assert.Equal(t, 2, stats.MonthDays)
	assert.True(t, stats.IsFirstToday)

	// 还没签到的日子，IsFirstToday 为 false
	stats = l.Statistics(mustDate(t, "2024-03-06"))
	assert.False(t, stats.IsFirstToday)
}
