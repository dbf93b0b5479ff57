package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bitzerlab/ordertrack/internal/entity"
	"github.com/bitzerlab/ordertrack/internal/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

const (
	machineCacheKeyAll    = "machines:list:all"
	machineCacheKeyActive = "machines:list:active"
	machineCacheTTL       = 5 * time.Minute
)

// MachineService serves the work center list. The list changes only on
// imports, so reads go through a short-lived Redis cache.
type MachineService struct {
	machineRepo *repository.MachineRepository
	rdb         *redis.Client
	logger      *zap.Logger
}

func NewMachineService(machineRepo *repository.MachineRepository, rdb *redis.Client, logger *zap.Logger) *MachineService {
	return &MachineService{machineRepo: machineRepo, rdb: rdb, logger: logger}
}

// List returns machines, cache-first. Cache failures fall through to the
// database.
func (s *MachineService) List(ctx context.Context, activeOnly bool) ([]entity.Machine, error) {
	key := machineCacheKeyAll
	if activeOnly {
		key = machineCacheKeyActive
	}

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			var machines []entity.Machine
			if err := json.Unmarshal(cached, &machines); err == nil {
				return machines, nil
			}
		}
	}

	machines, err := s.machineRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(machines); err == nil {
			if err := s.rdb.Set(ctx, key, payload, machineCacheTTL).Err(); err != nil {
				s.logger.Warn("machine cache write failed", zap.Error(err))
			}
		}
	}
	return machines, nil
}

// Get returns one machine by id.
func (s *MachineService) Get(ctx context.Context, id int64) (*entity.Machine, error) {
	return s.machineRepo.FindByID(ctx, id)
}

// UpdateMachineRequest toggles the fields the admin area may change.
type UpdateMachineRequest struct {
	Description Nullable[string]             `json:"description"`
	MachineType Nullable[entity.MachineType] `json:"machine_type"`
	Active      Nullable[bool]               `json:"active"`
}

// Update applies a partial machine update and invalidates the list cache.
func (s *MachineService) Update(ctx context.Context, id int64, req *UpdateMachineRequest) (*entity.Machine, error) {
	if _, err := s.machineRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	values := map[string]interface{}{}
	if req.Description.Set {
		if !req.Description.Valid {
			return nil, validationf("Description cannot be null")
		}
		values["description"] = req.Description.Value
	}
	if req.MachineType.Set {
		if !req.MachineType.Valid || !req.MachineType.Value.Valid() {
			return nil, validationf("Invalid machine type")
		}
		values["machine_type"] = req.MachineType.Value
	}
	if req.Active.Set {
		if !req.Active.Valid {
			return nil, validationf("Active flag cannot be null")
		}
		values["active"] = req.Active.Value
	}

	if len(values) > 0 {
		if err := s.machineRepo.Updates(ctx, id, values); err != nil {
			return nil, fmt.Errorf("update machine: %w", err)
		}
		s.invalidateCache(ctx)
	}
	return s.machineRepo.FindByID(ctx, id)
}

// ImportResult summarizes a CSV import.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ImportCSV upserts machines from a shop-floor CSV export keyed on the
// machine_location column. Rows without a location are skipped. Input that
// is not valid UTF-8 is decoded as Latin-1, which the legacy export used.
func (s *MachineService) ImportCSV(ctx context.Context, r io.Reader) (*ImportResult, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if !utf8.Valid(raw) {
		decoded, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw)
		if err != nil {
			return nil, fmt.Errorf("decode csv: %w", err)
		}
		raw = decoded
	}

	reader := csv.NewReader(strings.NewReader(string(raw)))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, validationf("Empty CSV file")
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	locIdx, ok := col["machine_location"]
	if !ok {
		return nil, validationf("CSV is missing the machine_location column")
	}

	field := func(record []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	result := &ImportResult{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, validationf("Malformed CSV: %v", err)
		}

		location := strings.TrimSpace(record[locIdx])
		if location == "" {
			result.Skipped++
			continue
		}

		machineType := entity.MachineType(strings.ToUpper(field(record, "machine_type")))
		if !machineType.Valid() {
			machineType = entity.MachineConventional
		}

		machine := &entity.Machine{
			MachineLocation: location,
			Description:     field(record, "machine_description"),
			MachineID:       field(record, "machine_id"),
			MachineType:     machineType,
			Active:          true,
		}
		if err := s.machineRepo.Upsert(ctx, machine); err != nil {
			return nil, fmt.Errorf("upsert machine %s: %w", location, err)
		}
		result.Imported++
	}

	s.invalidateCache(ctx)
	return result, nil
}

func (s *MachineService) invalidateCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, machineCacheKeyAll, machineCacheKeyActive).Err(); err != nil {
		s.logger.Warn("machine cache invalidation failed", zap.Error(err))
	}
}
