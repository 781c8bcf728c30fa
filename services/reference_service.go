package services

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"gopkg.in/yaml.v3"

	"movimenta_server/models"
)

// DefaultReferenceTTL bounds how stale cached reference data may get.
const DefaultReferenceTTL = time.Hour

const referenceKey = "reference"

// ReferenceProvider loads the role and location tables.
type ReferenceProvider interface {
	Load(ctx context.Context) (models.ReferenceData, error)
}

// FileProvider reads reference data from a YAML document.
type FileProvider struct {
	Path string
}

func (fp FileProvider) Load(context.Context) (models.ReferenceData, error) {
	var data models.ReferenceData
	raw, err := os.ReadFile(fp.Path)
	if err != nil {
		return data, fmt.Errorf("read reference file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("parse reference file %s: %w", fp.Path, err)
	}
	return data, nil
}

// ReferenceService serves reference data from a TTL cache in front of a provider.
type ReferenceService struct {
	provider ReferenceProvider
	cache    *expirable.LRU[string, models.ReferenceData]
}

func NewReferenceService(provider ReferenceProvider, ttl time.Duration) *ReferenceService {
	if ttl <= 0 {
		ttl = DefaultReferenceTTL
	}
	return &ReferenceService{
		provider: provider,
		cache:    expirable.NewLRU[string, models.ReferenceData](1, nil, ttl),
	}
}

func (rs *ReferenceService) load(ctx context.Context) (models.ReferenceData, error) {
	if data, ok := rs.cache.Get(referenceKey); ok {
		referenceCacheTotal.WithLabelValues("hit").Inc()
		return data, nil
	}
	referenceCacheTotal.WithLabelValues("miss").Inc()
	data, err := rs.provider.Load(ctx)
	if err != nil {
		return models.ReferenceData{}, err
	}
	rs.cache.Add(referenceKey, data)
	return data, nil
}

// Roles returns the non-empty role names in provider order.
func (rs *ReferenceService) Roles(ctx context.Context) ([]string, error) {
	data, err := rs.load(ctx)
	if err != nil {
		return nil, err
	}
	out := []string{}
	for _, r := range data.Roles {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out, nil
}

// Locations returns the locations that name an assignment.
func (rs *ReferenceService) Locations(ctx context.Context) ([]models.Location, error) {
	data, err := rs.load(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.Location{}
	for _, l := range data.Locations {
		if strings.TrimSpace(l.Assignment) != "" {
			out = append(out, l)
		}
	}
	return out, nil
}

// Neighborhoods returns the sorted distinct neighborhoods of all locations.
func (rs *ReferenceService) Neighborhoods(ctx context.Context) ([]string, error) {
	data, err := rs.load(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	out := []string{}
	for _, l := range data.Locations {
		n := strings.TrimSpace(l.Neighborhood)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	sort.Strings(out)
	return out, nil
}

// Invalidate drops the cached copy so the next call reloads.
func (rs *ReferenceService) Invalidate() {
	rs.cache.Purge()
}
