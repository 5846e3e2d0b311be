package dto_test

import (
	"jumuia/shared/constant"
	"jumuia/shared/dto"
	"jumuia/shared/model"
	"jumuia/shared/timezone"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetadata_FromModel(t *testing.T) {
	createdAt := time.Date(2024, 12, 20, 7, 30, 0, 0, time.UTC)
	modifiedAt := time.Date(2024, 12, 21, 9, 0, 0, 0, time.UTC)

	metadata := &dto.Metadata{}
	metadata.FromModel(model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: modifiedAt,
		CreatedBy:  "guest",
		ModifiedBy: "mary.wanjiku@jumuiaresorts.com",
	})

	if want := timezone.Format(createdAt, constant.DateFormat); metadata.CreatedAt != want {
		t.Errorf("expected CreatedAt to be %s, got %s", want, metadata.CreatedAt)
	}

	if want := timezone.Format(modifiedAt, constant.DateFormat); metadata.ModifiedAt != want {
		t.Errorf("expected ModifiedAt to be %s, got %s", want, metadata.ModifiedAt)
	}

	if metadata.CreatedBy != "guest" || metadata.ModifiedBy != "mary.wanjiku@jumuiaresorts.com" {
		t.Errorf("unexpected actors %q / %q", metadata.CreatedBy, metadata.ModifiedBy)
	}
}

func TestMetadata_FromModelZeroTimes(t *testing.T) {
	metadata := &dto.Metadata{}
	metadata.FromModel(model.Metadata{CreatedBy: "guest"})

	if metadata.CreatedAt != "" || metadata.ModifiedAt != "" {
		t.Errorf("expected zero times to render empty, got %q / %q", metadata.CreatedAt, metadata.ModifiedAt)
	}
}

func TestQueryParams_FromRequest(t *testing.T) {
	defaults := dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit}

	tests := []struct {
		name     string
		query    url.Values
		defaults bool
		want     dto.QueryParams
	}{
		{
			name:  "all parameters",
			query: url.Values{"page": {"2"}, "limit": {"20"}, "sort_by": {"check_in"}, "sort_dir": {"asc"}},
			want:  dto.QueryParams{Page: 2, Limit: 20, SortBy: "check_in", SortDir: dto.SortDirAsc},
		},
		{name: "nothing without defaults", query: url.Values{}, want: dto.QueryParams{}},
		{name: "nothing with defaults", query: url.Values{}, defaults: true, want: defaults},
		{name: "non-numeric page", query: url.Values{"page": {"two"}}, defaults: true, want: defaults},
		{name: "zero page", query: url.Values{"page": {"0"}}, defaults: true, want: defaults},
		{name: "negative limit", query: url.Values{"limit": {"-10"}}, defaults: true, want: defaults},
		{name: "unknown direction", query: url.Values{"sort_dir": {"sideways"}}, defaults: true, want: defaults},
		{
			name:     "blank sort column",
			query:    url.Values{"page": {"3"}, "sort_by": {"   "}, "sort_dir": {"DESC"}},
			defaults: true,
			want:     dto.QueryParams{Page: 3, Limit: constant.DefaultValueLimit, SortDir: dto.SortDirDesc},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, "http://example.com/v1/bookings?"+tt.query.Encode(), nil)
			if err != nil {
				t.Fatalf("failed to create request: %v", err)
			}

			got := dto.QueryParams{}
			got.FromRequest(req, tt.defaults)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.FilterGroup{Operator: dto.FilterGroupOperatorAnd}
	group.Add(dto.Filter{Field: "property", Value: "limuru", Operator: dto.FilterOperatorEq, Table: "bookings"})
	group.Add(dto.FilterGroup{
		Operator: dto.FilterGroupOperatorOr,
		Filters: []any{
			dto.Filter{Field: "booking_id", Value: "web", Operator: dto.FilterOperatorLike, Table: "bookings"},
			dto.Filter{Field: "guest_phone", ArgName: "phone_prefix", Value: "2547", Operator: dto.FilterOperatorPrefix, Table: "bookings"},
		},
	})
	group.Add(dto.FilterGroup{})
	group.Add(dto.Filter{Field: "status", Value: "x", Operator: "regex"})

	where, args := group.GetWhereClause()

	assert.Equal(t, "(bookings.property = :property AND (LOWER(bookings.booking_id) LIKE LOWER(:booking_id) OR bookings.guest_phone LIKE :phone_prefix))", where)
	assert.Equal(t, map[string]any{"property": "limuru", "booking_id": "%web%", "phone_prefix": "2547%"}, args)
}

func TestFilterGroup_DefaultsToAnd(t *testing.T) {
	group := dto.FilterGroup{}
	group.Add(dto.Filter{Field: "status", Value: "pending", Operator: dto.FilterOperatorNotEq})
	group.Add(dto.Filter{Field: "check_in", ArgName: "check_in_from", Value: "2024-01-01", Operator: dto.FilterOperatorGreaterEq})
	group.Add(dto.Filter{Field: "check_in", ArgName: "check_in_to", Value: "2024-01-31", Operator: dto.FilterOperatorLessEq})

	where, args := group.GetWhereClause()

	assert.Equal(t, "(status != :status AND check_in >= :check_in_from AND check_in <= :check_in_to)", where)
	assert.Len(t, args, 3)
	assert.True(t, (&dto.FilterGroup{}).IsEmpty())
}

func TestFilter_In(t *testing.T) {
	tests := []struct {
		name  string
		value any
		where string
		args  map[string]any
	}{
		{
			name:  "slice binds each element",
			value: []string{"kisumu", "all"},
			where: "offers.property IN (:property_0, :property_1)",
			args:  map[string]any{"property_0": "kisumu", "property_1": "all"},
		},
		{
			name:  "scalar is a single element",
			value: "kanamai",
			where: "offers.property IN (:property)",
			args:  map[string]any{"property": "kanamai"},
		},
		{
			name:  "empty slice matches nothing",
			value: []string{},
			where: "FALSE",
			args:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := dto.Filter{Field: "property", Value: tt.value, Operator: dto.FilterOperatorIn, Table: "offers"}

			where, args := filter.GetWhereClause()

			assert.Equal(t, tt.where, where)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestQueryParams_LimitIsCapped(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "http://example.com/v1/bookings?limit=5000&sort_dir=desc", nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	params := dto.QueryParams{}
	params.FromRequest(req, true)

	if params.Limit != constant.MaxValueLimit {
		t.Errorf("expected Limit to be capped at %d, got %d", constant.MaxValueLimit, params.Limit)
	}

	if params.SortDir != dto.SortDirDesc {
		t.Errorf("expected SortDir DESC, got %s", params.SortDir)
	}
}

func TestQueryParams_SortOn(t *testing.T) {
	tests := []struct {
		name    string
		params  dto.QueryParams
		wantBy  string
		wantDir string
	}{
		{
			name:    "allowed column keeps direction",
			params:  dto.QueryParams{SortBy: "check_in", SortDir: dto.SortDirAsc},
			wantBy:  "bookings.check_in",
			wantDir: dto.SortDirAsc,
		},
		{
			name:    "unknown column falls back",
			params:  dto.QueryParams{SortBy: "id; DROP TABLE bookings"},
			wantBy:  "bookings.created_at",
			wantDir: dto.SortDirDesc,
		},
		{
			name:    "empty column falls back",
			params:  dto.QueryParams{},
			wantBy:  "bookings.created_at",
			wantDir: dto.SortDirDesc,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.params.SortOn("bookings", "created_at", dto.SortDirDesc, "created_at", "check_in")

			if tt.params.SortBy != tt.wantBy {
				t.Errorf("expected SortBy %s, got %s", tt.wantBy, tt.params.SortBy)
			}

			if tt.params.SortDir != tt.wantDir {
				t.Errorf("expected SortDir %s, got %s", tt.wantDir, tt.params.SortDir)
			}
		})
	}
}

func TestQueryParams_PagedAndOffset(t *testing.T) {
	params := dto.QueryParams{}
	params.Paged()

	if params.Page != constant.DefaultValuePage || params.Limit != constant.DefaultValueLimit {
		t.Errorf("expected defaults, got page %d limit %d", params.Page, params.Limit)
	}

	if params.Offset() != 0 {
		t.Errorf("expected first page offset 0, got %d", params.Offset())
	}

	params.Page = 3
	params.Limit = 25

	if params.Offset() != 50 {
		t.Errorf("expected offset 50, got %d", params.Offset())
	}
}
