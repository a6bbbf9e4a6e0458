package usecase

import (
	"errors"

	"github.com/fairyhunter13/resume-match/internal/domain"
	"github.com/fairyhunter13/resume-match/internal/match"
)

// Shared in-memory fakes for the services under test.

type fakeResumeRepo struct {
	resumes   map[string]domain.Resume
	createErr error
	created   []domain.Resume
}

func (f *fakeResumeRepo) Create(_ domain.Context, r domain.Resume) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	if r.ID == "" {
		r.ID = "resume-1"
	}
	f.created = append(f.created, r)
	return r.ID, nil
}

func (f *fakeResumeRepo) Get(_ domain.Context, id string) (domain.Resume, error) {
	r, ok := f.resumes[id]
	if !ok {
		return domain.Resume{}, domain.ErrNotFound
	}
	return r, nil
}

type fakeAnalysisRepo struct {
	inserted  []domain.AnalysisResult
	insertErr error
	byID      map[string]domain.AnalysisResult
	recent    []domain.AnalysisResult
	lastLimit int
}

func (f *fakeAnalysisRepo) Insert(_ domain.Context, res domain.AnalysisResult) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, res)
	return nil
}

func (f *fakeAnalysisRepo) GetByID(_ domain.Context, id string) (domain.AnalysisResult, error) {
	res, ok := f.byID[id]
	if !ok {
		return domain.AnalysisResult{}, domain.ErrNotFound
	}
	return res, nil
}

func (f *fakeAnalysisRepo) ListRecent(_ domain.Context, limit int) ([]domain.AnalysisResult, error) {
	f.lastLimit = limit
	if limit < len(f.recent) {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

type fakeCache struct {
	entries map[string]domain.AnalysisResult
	getErr  error
	putErr  error
	puts    int
}

func (f *fakeCache) Put(_ domain.Context, res domain.AnalysisResult) error {
	if f.putErr != nil {
		return f.putErr
	}
	if f.entries == nil {
		f.entries = map[string]domain.AnalysisResult{}
	}
	f.entries[res.ID] = res
	f.puts++
	return nil
}

func (f *fakeCache) Get(_ domain.Context, id string) (domain.AnalysisResult, bool, error) {
	if f.getErr != nil {
		return domain.AnalysisResult{}, false, f.getErr
	}
	res, ok := f.entries[id]
	return res, ok, nil
}

// lexicalOnlyEmbedder always fails, pushing the engine onto its lexical
// fallback; analysis behavior stays deterministic without a backend.
type lexicalOnlyEmbedder struct{}

func (lexicalOnlyEmbedder) Embed(domain.Context, []string) ([][]float32, error) {
	return nil, errors.New("no embedding backend in tests")
}

func newTestEngine() *match.Engine {
	return match.NewEngine(
		match.NewTaxonomy(nil),
		match.NewSemanticScorer(lexicalOnlyEmbedder{}, 0, 0, 0),
		domain.AnalysisOptions{},
		nil,
	)
}
