// Package aggregate folds classified uploads into one profile per UID.
package aggregate

import (
	"context"

	"uidlens/domain/social"
	"uidlens/internal"
	"uidlens/internal/chunk"
	"uidlens/internal/extract"
)

// Aggregator merges uploaded files into per-UID profiles. It holds no
// state between calls; every call builds a fresh UID map.
type Aggregator struct {
	ChunkSize  int
	OnProgress chunk.Progress
	logger     *internal.Logger
}

// New creates an aggregator that yields every chunkSize rows
func New(chunkSize int) *Aggregator {
	if chunkSize <= 0 {
		chunkSize = chunk.DefaultSize
	}
	return &Aggregator{
		ChunkSize: chunkSize,
		logger:    internal.DefaultLogger.Named("Aggregator"),
	}
}

// Aggregate is the synchronous form of Aggregator.Aggregate with the default chunk size
func Aggregate(files []social.UploadedFile) []*social.Profile {
	profiles, _ := New(chunk.DefaultSize).Aggregate(context.Background(), files)
	return profiles
}

// Aggregate processes files in order and rows in file order. Rows without a
// UID are dropped. Profiles come back in UID first-seen order. files is
// read only; bucketed rows are copies.
//
// A cancelled context aborts the run and the partial result is discarded.
func (a *Aggregator) Aggregate(ctx context.Context, files []social.UploadedFile) ([]*social.Profile, error) {
	total := 0
	for i := range files {
		total += len(files[i].Data)
	}

	byUID := make(map[string]*social.Profile)
	order := make([]string, 0)
	done := 0

	for i := range files {
		file := &files[i]
		source := social.SourceFrom(file)
		seen := make(map[string]struct{})
		dropped := 0

		err := chunk.Range(ctx, len(file.Data), a.ChunkSize, func(start, end int) error {
			for _, row := range file.Data[start:end] {
				uid, ok := extract.UID(row, file.Type)
				if !ok {
					dropped++
					continue
				}

				profile, exists := byUID[uid]
				if !exists {
					name, _ := extract.Name(row, file.Type)
					profile = social.NewProfile(uid, name)
					byUID[uid] = profile
					order = append(order, uid)
				}

				profile.Record(file.Type, cloneRow(row))

				if at, ok := extract.Date(row); ok {
					profile.Touch(at)
				}

				if _, ok := seen[uid]; !ok {
					seen[uid] = struct{}{}
					profile.Sources = append(profile.Sources, source)
				}
			}
			return nil
		}, func(n, _ int) {
			if a.OnProgress != nil {
				a.OnProgress(done+n, total)
			}
		})
		if err != nil {
			a.logger.Warn("aggregation stopped at file %q: %v", file.Name, err)
			return nil, err
		}
		done += len(file.Data)

		if dropped > 0 {
			a.logger.Debug("%s: dropped %d of %d rows without a UID", file.Name, dropped, len(file.Data))
		}
	}

	profiles := make([]*social.Profile, len(order))
	for i, uid := range order {
		profiles[i] = byUID[uid]
	}
	a.logger.Debug("aggregated %d rows from %d files into %d profiles", total, len(files), len(profiles))
	return profiles, nil
}

// Find returns the profile with the given UID
func Find(profiles []*social.Profile, uid string) (*social.Profile, bool) {
	for _, p := range profiles {
		if p.UID == uid {
			return p, true
		}
	}
	return nil, false
}

func cloneRow(row social.Row) social.Row {
	return social.NewRow(row.Fields()...)
}
