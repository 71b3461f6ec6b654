package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bouncecure/internal/cache"
	"bouncecure/internal/directory"
	"bouncecure/internal/domain"
	"bouncecure/internal/models"
)

const (
	paymentsCacheKey      = "payments:all:"
	paymentsGenerationKey = "payments:gen"
)

type ListQuery struct {
	Search string
	Page   int // 1-based; ignored when Limit is 0
	Limit  int // 0 returns every match
}

type ListResult struct {
	Items []directory.PaymentView
	Total int
	Page  int
	Limit int
}

// DirectoryService owns payment record reads, edits and deletes.
type DirectoryService struct {
	store     PaymentStore
	norm      *directory.Normalizer
	log       *zap.Logger
	cache     cache.Cache
	cacheTTL  time.Duration
	publisher Publisher
}

func NewDirectoryService(store PaymentStore, norm *directory.Normalizer, log *zap.Logger) *DirectoryService {
	return &DirectoryService{store: store, norm: norm, log: log.Named("directory")}
}

// WithCache keeps a snapshot of all records for ttl. Writes invalidate it.
func (s *DirectoryService) WithCache(c cache.Cache, ttl time.Duration) *DirectoryService {
	s.cache = c
	s.cacheTTL = ttl
	return s
}

func (s *DirectoryService) WithPublisher(p Publisher) *DirectoryService {
	s.publisher = p
	return s
}

func (s *DirectoryService) Normalizer() *directory.Normalizer { return s.norm }

// records reads the list snapshot for the current generation. The generation
// is read before the store, so a snapshot taken across a concurrent write is
// stored under a generation that write has already retired.
func (s *DirectoryService) records(ctx context.Context) ([]models.Payment, error) {
	if s.cache == nil {
		return s.store.List(ctx)
	}
	return cache.GetOrSet(ctx, s.cache, paymentsCacheKey+s.generation(ctx), s.cacheTTL, func() ([]models.Payment, error) {
		return s.store.List(ctx)
	})
}

func (s *DirectoryService) generation(ctx context.Context) string {
	var gen string
	if err := s.cache.Get(ctx, paymentsGenerationKey, &gen); err != nil || gen == "" {
		return "0"
	}
	return gen
}

// List returns the records matching q.Search in source order, presented for
// display.
func (s *DirectoryService) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	all, err := s.records(ctx)
	if err != nil {
		return nil, err
	}
	matched := directory.Filter(all, q.Search)
	res := &ListResult{Total: len(matched), Page: q.Page, Limit: q.Limit}
	if q.Limit > 0 {
		if q.Page < 1 {
			res.Page = 1
		}
		// Compare by division so a huge page cannot overflow the offset.
		start := len(matched)
		if res.Page-1 <= len(matched)/q.Limit {
			start = min((res.Page-1)*q.Limit, len(matched))
		}
		end := start + q.Limit
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[start:end]
	}
	res.Items = s.norm.PresentAll(matched)
	return res, nil
}

func (s *DirectoryService) Get(ctx context.Context, id uint) (*directory.PaymentView, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := s.norm.Present(*p)
	return &v, nil
}

// Edit applies a partial update. A patch that tries to change the id is
// rejected before the store is touched.
func (s *DirectoryService) Edit(ctx context.Context, id uint, patch directory.Patch) (*directory.PaymentView, error) {
	if err := patch.Validate(id); err != nil {
		return nil, err
	}
	fields := patch.Fields()
	if len(fields) == 0 {
		return s.Get(ctx, id)
	}
	p, err := s.store.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	v := s.norm.Present(*p)
	if s.publisher != nil {
		s.publisher.Publish(domain.EventPaymentUpdated, id, v)
	}
	return &v, nil
}

// Delete removes a record. A missing id is reported as NotFound.
func (s *DirectoryService) Delete(ctx context.Context, id uint) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	if s.publisher != nil {
		s.publisher.Publish(domain.EventPaymentDeleted, id, nil)
	}
	return nil
}

// invalidate retires the current list generation after a committed write.
func (s *DirectoryService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	old := s.generation(ctx)
	if err := s.cache.Set(ctx, paymentsGenerationKey, uuid.NewString(), 0); err != nil {
		s.log.Warn("failed to bump payments cache generation", zap.Error(err))
	}
	if err := s.cache.Delete(ctx, paymentsCacheKey+old); err != nil {
		s.log.Warn("failed to invalidate payments cache", zap.Error(err))
	}
}
