package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"uidlens/domain/core"
	"uidlens/domain/social"
	"uidlens/internal"
	"uidlens/internal/aggregate"
	"uidlens/internal/classify"
	apperrors "uidlens/internal/errors"
	"uidlens/ports"
)

// WorkspaceService owns the uploaded file list of one workspace and the
// profiles derived from it. Every change re-derives the profiles from the
// full file list; a newer derivation cancels and supersedes older ones.
type WorkspaceService struct {
	reader     ports.SpreadsheetReader
	store      ports.SnapshotStore
	classifier *classify.Classifier
	aggregator *aggregate.Aggregator
	workers    int64
	workspace  string
	now        func() time.Time
	logger     *internal.Logger

	mu         sync.RWMutex
	files      []social.UploadedFile
	profiles   []*social.Profile
	generation uint64
	cancelRun  context.CancelFunc

	saveMu   sync.Mutex
	savedGen uint64
}

// WorkspaceOptions configures a WorkspaceService
type WorkspaceOptions struct {
	WorkspaceID  string
	ChunkSize    int
	ParseWorkers int
}

// Upload is one spreadsheet submitted for ingestion
type Upload struct {
	Name    string
	Content []byte
}

// UploadMeta is shared by every file of one upload request
type UploadMeta struct {
	Type         social.DataKind // optional manual kind; skips classification
	SourceType   social.SourceType
	SourceUID    string
	UploaderID   string
	UploaderName string
}

// Rejection explains why one file of an upload was not ingested
type Rejection struct {
	Name  string `json:"name"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

// UploadResult lists accepted files in request order and the rejected ones
type UploadResult struct {
	Files    []social.UploadedFile `json:"files"`
	Rejected []Rejection           `json:"rejected"`
}

// FileOverride is a manual correction; nil fields are left unchanged
type FileOverride struct {
	Type       *social.DataKind
	SourceType *social.SourceType
	SourceUID  *string
}

// NewWorkspaceService creates a workspace service
func NewWorkspaceService(reader ports.SpreadsheetReader, store ports.SnapshotStore, opts WorkspaceOptions) *WorkspaceService {
	workers := opts.ParseWorkers
	if workers <= 0 {
		workers = 1
	}
	return &WorkspaceService{
		reader:     reader,
		store:      store,
		classifier: classify.New(),
		aggregator: aggregate.New(opts.ChunkSize),
		workers:    int64(workers),
		workspace:  opts.WorkspaceID,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     internal.DefaultLogger.Named("WorkspaceService"),
		files:      []social.UploadedFile{},
		profiles:   []*social.Profile{},
	}
}

// Restore loads the last saved snapshot, if any
func (s *WorkspaceService) Restore(ctx context.Context) error {
	snapshot, err := s.store.Load(ctx)
	if err != nil {
		if errors.Is(err, core.ErrSnapshotMissing) {
			s.logger.Info("no saved snapshot for workspace %s", s.workspace)
			return nil
		}
		return apperrors.Wrap(apperrors.WithCode(apperrors.CodeStorageError, err), "failed to restore workspace")
	}

	files, profiles := snapshot.Files, snapshot.Profiles
	if files == nil {
		files = []social.UploadedFile{}
	}
	if profiles == nil {
		profiles = []*social.Profile{}
	}
	s.mu.Lock()
	s.files = files
	s.profiles = profiles
	s.mu.Unlock()

	if snapshot.Profiles == nil && len(files) > 0 {
		return s.rederiveLatest(ctx)
	}
	s.logger.Info("restored workspace %s: %d files, %d profiles", s.workspace, len(files), len(snapshot.Profiles))
	return nil
}

// Upload parses the uploads concurrently, classifies each file unless a
// manual kind is given, appends the accepted files and re-derives profiles.
// Per-file failures are reported in the result, not as an error.
func (s *WorkspaceService) Upload(ctx context.Context, uploads []Upload, meta UploadMeta) (*UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if meta.SourceType == "" {
		meta.SourceType = social.SourceProfile
	}

	parsed := make([]*social.UploadedFile, len(uploads))
	failures := make([]error, len(uploads))
	sem := semaphore.NewWeighted(s.workers)
	g, gctx := errgroup.WithContext(ctx)

	for i := range uploads {
		i := i
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			file, err := s.ingest(gctx, uploads[i], meta)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				failures[i] = err
				return nil
			}
			parsed[i] = file
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &UploadResult{Files: []social.UploadedFile{}, Rejected: []Rejection{}}
	for i, f := range parsed {
		if f != nil {
			result.Files = append(result.Files, *f)
			continue
		}
		err := failures[i]
		s.logger.Warn("rejected %s: %v", uploads[i].Name, err)
		result.Rejected = append(result.Rejected, Rejection{
			Name:  uploads[i].Name,
			Code:  apperrors.GetCode(err),
			Error: err.Error(),
		})
	}

	if len(result.Files) == 0 {
		return result, nil
	}

	s.mu.Lock()
	s.files = append(s.files, result.Files...)
	s.mu.Unlock()

	if err := s.rederiveLatest(ctx); err != nil {
		return result, err
	}
	return result, nil
}

func (s *WorkspaceService) ingest(ctx context.Context, up Upload, meta UploadMeta) (*social.UploadedFile, error) {
	rows, err := s.reader.Read(ctx, up.Name, bytes.NewReader(up.Content))
	if err != nil {
		if errors.Is(err, core.ErrUnsupportedFile) || errors.Is(err, core.ErrEmptySheet) {
			return nil, apperrors.UnsupportedFile(up.Name, err)
		}
		return nil, err
	}

	file := &social.UploadedFile{
		ID:           core.NewID(),
		Name:         up.Name,
		Data:         rows,
		RowCount:     len(rows),
		SourceType:   meta.SourceType,
		SourceUID:    meta.SourceUID,
		UploadDate:   s.now(),
		UploaderID:   meta.UploaderID,
		UploaderName: meta.UploaderName,
	}
	if meta.Type != "" {
		file.Type = meta.Type
		file.ManualType = true
	} else {
		file.Type = s.classifier.Classify(up.Name, rows)
	}
	file.Processed = true

	s.logger.Info("ingested %s as %s (%d rows, manual=%v)", file.Name, file.Type, file.RowCount, file.ManualType)
	return file, nil
}

// OverrideFile applies a manual correction and re-derives profiles.
// Setting the kind marks the file as manually typed.
func (s *WorkspaceService) OverrideFile(ctx context.Context, id core.ID, o FileOverride) (social.UploadedFile, error) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return social.UploadedFile{}, apperrors.Wrapf(core.ErrFileNotFound, "file %s", id)
	}
	file := s.files[idx]
	if o.Type != nil {
		file.Type = *o.Type
		file.ManualType = true
	}
	if o.SourceType != nil {
		file.SourceType = *o.SourceType
	}
	if o.SourceUID != nil {
		file.SourceUID = *o.SourceUID
	}
	s.files = replaceAt(s.files, idx, file)
	s.mu.Unlock()

	s.logger.Info("override %s: type=%s source=%s/%s", file.Name, file.Type, file.SourceType, file.SourceUID)
	return file, s.rederiveLatest(ctx)
}

// RemoveFile drops a file and re-derives profiles without it
func (s *WorkspaceService) RemoveFile(ctx context.Context, id core.ID) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return apperrors.Wrapf(core.ErrFileNotFound, "file %s", id)
	}
	name := s.files[idx].Name
	next := make([]social.UploadedFile, 0, len(s.files)-1)
	next = append(next, s.files[:idx]...)
	next = append(next, s.files[idx+1:]...)
	s.files = next
	s.mu.Unlock()

	s.logger.Info("removed %s", name)
	return s.rederiveLatest(ctx)
}

// Rederive recomputes profiles from the current file list. It returns
// core.ErrSuperseded when a newer derivation started before it finished;
// the newer run's result is the one that is kept.
func (s *WorkspaceService) Rederive(ctx context.Context) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	if s.cancelRun != nil {
		s.cancelRun()
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancelRun = cancel
	files := append([]social.UploadedFile(nil), s.files...)
	s.mu.Unlock()
	defer cancel()

	start := time.Now()
	profiles, err := s.aggregator.Aggregate(runCtx, files)
	if err != nil {
		if s.isStale(gen) {
			return core.ErrSuperseded
		}
		return apperrors.Wrap(err, "aggregation failed")
	}

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.logger.Debug("generation %d superseded, discarding %d profiles", gen, len(profiles))
		return core.ErrSuperseded
	}
	s.profiles = profiles
	s.cancelRun = nil
	snapshot := &social.Snapshot{
		WorkspaceID: s.workspace,
		Files:       files,
		Profiles:    profiles,
		SavedAt:     s.now(),
	}
	s.mu.Unlock()

	s.logger.Info("generation %d: %d files -> %d profiles in %s", gen, len(files), len(profiles), time.Since(start))
	return s.persist(ctx, gen, snapshot)
}

// rederiveLatest is Rederive for mutations: losing to a newer run is fine
// because that run already sees this mutation
func (s *WorkspaceService) rederiveLatest(ctx context.Context) error {
	if err := s.Rederive(ctx); err != nil && !errors.Is(err, core.ErrSuperseded) {
		return err
	}
	return nil
}

func (s *WorkspaceService) isStale(gen uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return gen != s.generation
}

// persist saves a snapshot unless a newer generation was already saved
func (s *WorkspaceService) persist(ctx context.Context, gen uint64, snapshot *social.Snapshot) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if gen < s.savedGen {
		return nil
	}
	if err := s.store.Save(ctx, snapshot); err != nil {
		return apperrors.StorageError(s.workspace, err)
	}
	s.savedGen = gen
	return nil
}

// Files returns the uploaded files in upload order
func (s *WorkspaceService) Files() []social.UploadedFile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]social.UploadedFile(nil), s.files...)
}

// File returns one uploaded file
func (s *WorkspaceService) File(id core.ID) (social.UploadedFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexLocked(id); idx >= 0 {
		return s.files[idx], nil
	}
	return social.UploadedFile{}, apperrors.Wrapf(core.ErrFileNotFound, "file %s", id)
}

// Profiles returns the latest published profiles. Published profiles are
// never mutated; a re-derivation replaces the whole list.
func (s *WorkspaceService) Profiles() []*social.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profiles
}

// Profile looks up one profile by UID
func (s *WorkspaceService) Profile(uid string) (*social.Profile, error) {
	if p, ok := aggregate.Find(s.Profiles(), uid); ok {
		return p, nil
	}
	return nil, apperrors.Wrap(core.ErrProfileNotFound, fmt.Sprintf("uid %s", uid))
}

func (s *WorkspaceService) indexLocked(id core.ID) int {
	for i := range s.files {
		if s.files[i].ID == id {
			return i
		}
	}
	return -1
}

// replaceAt returns a copy of files with files[idx] replaced, leaving
// slices held by in-flight derivations untouched
func replaceAt(files []social.UploadedFile, idx int, f social.UploadedFile) []social.UploadedFile {
	next := append([]social.UploadedFile(nil), files...)
	next[idx] = f
	return next
}
