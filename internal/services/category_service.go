package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"sheetwallet/internal/core"
	applog "sheetwallet/internal/log"
	"sheetwallet/internal/rows"
	"sheetwallet/internal/validator"
)

// CategoryService loads, resolves and edits categories. It keeps the
// default category present in the sheet.
type CategoryService struct {
	table *rows.Table
	now   func() time.Time
}

func NewCategoryService(table *rows.Table) *CategoryService {
	return &CategoryService{table: table, now: time.Now}
}

// CategoryPatch carries the fields of an update request; nil keeps the
// stored value.
type CategoryPatch struct {
	Name     *string
	ColorHex *string
}

// Load returns all categories. An empty sheet is initialized with the header
// and the default category; a sheet missing the default gets it appended.
func (s *CategoryService) Load(ctx context.Context) ([]core.Category, error) {
	raw, err := s.table.ReadRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("read categories: %w", err)
	}
	if len(raw) == 0 {
		if err := s.table.Initialize(ctx, core.DefaultCategory.Values()); err != nil {
			return nil, err
		}
		sheetLogger(ctx).InfoContext(ctx, "Initialized category sheet",
			applog.FieldOperation, applog.OpInit, applog.FieldRange, s.table.Range())
		return []core.Category{core.DefaultCategory}, nil
	}

	records := rows.Normalize(raw)
	cats := make([]core.Category, 0, len(records)+1)
	hasDefault := false
	for _, rec := range records {
		c := core.CategoryFromRecord(rec)
		if c.IsDefault() {
			hasDefault = true
		}
		cats = append(cats, c)
	}
	if !hasDefault {
		if err := s.table.Append(ctx, core.DefaultCategory.Values()); err != nil {
			return nil, err
		}
		sheetLogger(ctx).WarnContext(ctx, "Default category was missing and has been restored",
			applog.FieldRange, s.table.Range())
		cats = append(cats, core.DefaultCategory)
	}
	return cats, nil
}

// Ping reads the category range without initializing it.
func (s *CategoryService) Ping(ctx context.Context) error {
	if _, err := s.table.ReadRows(ctx); err != nil {
		return fmt.Errorf("read categories: %w", err)
	}
	return nil
}

// sheetLogger is the request logger tagged for sheet maintenance lines.
func sheetLogger(ctx context.Context) *applog.Logger {
	return applog.FromContext(ctx).WithComponent(applog.ComponentSheets)
}

// FindCategoryByID matches on the trimmed id. An empty id never matches.
func FindCategoryByID(cats []core.Category, id string) (core.Category, bool) {
	id = core.NormalizeID(id)
	if id == "" {
		return core.Category{}, false
	}
	for _, c := range cats {
		if core.NormalizeID(c.ID) == id {
			return c, true
		}
	}
	return core.Category{}, false
}

// FindCategoryByName matches case-insensitively on the trimmed name.
func FindCategoryByName(cats []core.Category, name string) (core.Category, bool) {
	name = core.NormalizeName(name)
	if name == "" {
		return core.Category{}, false
	}
	for _, c := range cats {
		if core.NormalizeName(c.Name) == name {
			return c, true
		}
	}
	return core.Category{}, false
}

// Resolve picks the category for a reference: id, then name, then each
// fallback id in order, then the built-in default.
func Resolve(cats []core.Category, id, name string, fallbackIDs ...string) core.Category {
	if c, ok := FindCategoryByID(cats, id); ok {
		return c
	}
	if c, ok := FindCategoryByName(cats, name); ok {
		return c
	}
	for _, fb := range fallbackIDs {
		if c, ok := FindCategoryByID(cats, fb); ok {
			return c
		}
	}
	return core.DefaultCategory
}

// GenerateID returns max+1 when every id is numeric, otherwise the current
// time in milliseconds.
func GenerateID(cats []core.Category, now time.Time) string {
	if len(cats) > 0 {
		max := math.Inf(-1)
		numeric := true
		for _, c := range cats {
			v, ok := parseNumber(c.ID)
			if !ok {
				numeric = false
				break
			}
			max = math.Max(max, v)
		}
		if numeric {
			return strconv.FormatFloat(max+1, 'f', -1, 64)
		}
	}
	return strconv.FormatInt(now.UnixMilli(), 10)
}

// parseNumber accepts what a lenient numeric cast would: blank is zero,
// anything non-finite is rejected.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func (s *CategoryService) Create(ctx context.Context, name, colorHex string) (core.Category, error) {
	c, err := buildCategory("", name, colorHex)
	if err != nil {
		return core.Category{}, err
	}
	cats, err := s.Load(ctx)
	if err != nil {
		return core.Category{}, err
	}
	if duplicateName(cats, c.Name, "") {
		return core.Category{}, core.Conflict("category name already exists")
	}
	c.ID = GenerateID(cats, s.now())
	if err := s.table.Append(ctx, c.Values()); err != nil {
		return core.Category{}, err
	}
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, patch CategoryPatch) (core.Category, error) {
	match, ok, err := s.table.FindByID(ctx, core.ColumnID, id, nil)
	if err != nil {
		return core.Category{}, err
	}
	if !ok {
		return core.Category{}, core.NotFound("category not found")
	}
	stored := core.CategoryFromRecord(match.Record)
	name, color := stored.Name, stored.ColorHex
	if patch.Name != nil {
		name = *patch.Name
	}
	if patch.ColorHex != nil {
		color = *patch.ColorHex
	}
	c, err := buildCategory(id, name, color)
	if err != nil {
		return core.Category{}, err
	}

	cats, err := s.Load(ctx)
	if err != nil {
		return core.Category{}, err
	}
	if duplicateName(cats, c.Name, id) {
		return core.Category{}, core.Conflict("category name already exists")
	}
	if err := s.table.Update(ctx, match.Index, c.Values()); err != nil {
		return core.Category{}, err
	}
	return c, nil
}

func (s *CategoryService) Delete(ctx context.Context, id string) (core.Category, error) {
	if core.NormalizeID(id) == core.DefaultCategory.ID {
		return core.Category{}, core.Invalid("the default category cannot be deleted")
	}
	match, ok, err := s.table.FindByID(ctx, core.ColumnID, id, nil)
	if err != nil {
		return core.Category{}, err
	}
	if !ok {
		return core.Category{}, core.NotFound("category not found")
	}
	if err := s.table.Delete(ctx, match.Index); err != nil {
		return core.Category{}, err
	}
	return core.CategoryFromRecord(match.Record), nil
}

// buildCategory trims the input, applies the default color and validates.
// Accepted colors are stored uppercased.
func buildCategory(id, name, colorHex string) (core.Category, error) {
	c := core.Category{
		ID:       id,
		Name:     strings.TrimSpace(name),
		ColorHex: strings.TrimSpace(colorHex),
	}
	if c.ColorHex == "" {
		c.ColorHex = core.DefaultCategory.ColorHex
	}
	if err := validator.Struct(c); err != nil {
		return core.Category{}, err
	}
	c.ColorHex = strings.ToUpper(c.ColorHex)
	return c, nil
}

func duplicateName(cats []core.Category, name, excludeID string) bool {
	excludeID = core.NormalizeID(excludeID)
	for _, c := range cats {
		if excludeID != "" && core.NormalizeID(c.ID) == excludeID {
			continue
		}
		if core.NormalizeName(c.Name) == core.NormalizeName(name) {
			return true
		}
	}
	return false
}
