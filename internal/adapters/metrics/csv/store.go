package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/llmnexus/nexus/internal/domain"
	"github.com/llmnexus/nexus/internal/ports"
)

const (
	metricsFileMode = 0o600
	metricsDirMode  = 0o700
)

// Column order is a compatibility surface: dashboard consumers read
// this file by name and position.
var header = []string{"timestamp", "user", "model", "latency", "response_length", "success", "estimated_cost"}

// Store appends metrics records to a CSV file. Every record is one
// self-contained line, so a crash mid-batch can only lose whole trailing
// lines, never corrupt earlier ones.
type Store struct {
	path string
	mu   *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.MetricsStore = (*Store)(nil)

func NewStore(path string) (*Store, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve metrics path: %w", err)
	}
	absPath = filepath.Clean(absPath)

	return &Store{path: absPath, mu: lockForPath(absPath)}, nil
}

func (s *Store) Append(ctx context.Context, records []domain.MetricsRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), metricsDirMode); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}

	info, err := os.Stat(s.path)
	fresh := errors.Is(err, os.ErrNotExist) || (err == nil && info.Size() == 0)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat metrics file: %w", err)
	}

	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, metricsFileMode)
	if err != nil {
		return fmt.Errorf("open metrics file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	writer := csv.NewWriter(file)
	if fresh {
		if err := writer.Write(header); err != nil {
			return fmt.Errorf("write metrics header: %w", err)
		}
	}

	for _, record := range records {
		if err := writer.Write(toRow(record)); err != nil {
			return fmt.Errorf("write metrics record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush metrics records: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("close metrics file: %w", err)
	}

	return nil
}

func (s *Store) List(ctx context.Context) ([]domain.MetricsRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open metrics file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read metrics file: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	records := make([]domain.MetricsRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		record, err := fromRow(row)
		if err != nil {
			return nil, fmt.Errorf("parse metrics row %d: %w", i+2, err)
		}
		records = append(records, record)
	}

	return records, nil
}

// Path returns the metrics file location.
func (s *Store) Path() string {
	return s.path
}

func toRow(record domain.MetricsRecord) []string {
	return []string{
		strconv.FormatInt(record.Timestamp.Unix(), 10),
		record.User,
		string(record.Model),
		strconv.FormatInt(record.LatencyMS, 10),
		strconv.Itoa(record.ResponseLength),
		strconv.FormatBool(record.Success),
		record.EstimatedCost.String(),
	}
}

func fromRow(row []string) (domain.MetricsRecord, error) {
	if len(row) != len(header) {
		return domain.MetricsRecord{}, fmt.Errorf("expected %d columns, got %d", len(header), len(row))
	}

	epoch, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return domain.MetricsRecord{}, fmt.Errorf("parse timestamp: %w", err)
	}
	latency, err := strconv.ParseInt(row[3], 10, 64)
	if err != nil {
		return domain.MetricsRecord{}, fmt.Errorf("parse latency: %w", err)
	}
	length, err := strconv.Atoi(row[4])
	if err != nil {
		return domain.MetricsRecord{}, fmt.Errorf("parse response length: %w", err)
	}
	success, err := strconv.ParseBool(row[5])
	if err != nil {
		return domain.MetricsRecord{}, fmt.Errorf("parse success flag: %w", err)
	}
	cost, err := decimal.NewFromString(row[6])
	if err != nil {
		return domain.MetricsRecord{}, fmt.Errorf("parse estimated cost: %w", err)
	}

	return domain.MetricsRecord{
		Timestamp:      time.Unix(epoch, 0).UTC(),
		User:           row[1],
		Model:          domain.ModelID(row[2]),
		LatencyMS:      latency,
		ResponseLength: length,
		Success:        success,
		EstimatedCost:  cost,
	}, nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}
