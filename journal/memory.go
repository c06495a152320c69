package journal

import (
	"context"
	"sort"
	"sync"
)

type MemoryJournal struct {
	lk      sync.RWMutex
	streams map[Stream][]Entry
}

func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{streams: make(map[Stream][]Entry)}
}

func (j *MemoryJournal) Append(_ context.Context, entries ...Entry) error {
	if len(entries) == 0 {
		return EmptyAppend
	}

	j.lk.Lock()
	defer j.lk.Unlock()

	seen := make(map[Stream]map[string]bool)
	for _, entry := range entries {
		revisions := seen[entry.Stream]
		if revisions == nil {
			revisions = make(map[string]bool)
			for _, existing := range j.streams[entry.Stream] {
				revisions[existing.Revision.String()] = true
			}
			seen[entry.Stream] = revisions
		}

		if revisions[entry.Revision.String()] {
			return DuplicateEntry
		}
		revisions[entry.Revision.String()] = true
	}

	for _, entry := range entries {
		stream := append(j.streams[entry.Stream], entry)
		sort.SliceStable(stream, func(a, b int) bool {
			return stream[a].Revision < stream[b].Revision
		})
		j.streams[entry.Stream] = stream
	}

	return nil
}

func (j *MemoryJournal) Read(_ context.Context, stream Stream) ([]Entry, error) {
	j.lk.RLock()
	defer j.lk.RUnlock()

	entries := j.streams[stream]
	result := make([]Entry, len(entries))
	copy(result, entries)

	return result, nil
}

func (j *MemoryJournal) Remove(_ context.Context, stream Stream) (int, error) {
	j.lk.Lock()
	defer j.lk.Unlock()

	count := len(j.streams[stream])
	delete(j.streams, stream)

	return count, nil
}
