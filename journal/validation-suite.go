package journal

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/jaswdr/faker"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"

	"github.com/weegigs/wee-store-go/ws"
)

var entropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)

// ValidationSuite checks the behaviour every Journal implementation must share.
type ValidationSuite struct {
	journal   Journal
	ctx       context.Context
	faker     faker.Faker
	revisions *ws.RevisionGenerator
}

func NewValidationSuite(ctx context.Context, journal Journal) *ValidationSuite {
	return &ValidationSuite{
		journal:   journal,
		ctx:       ctx,
		faker:     faker.New(),
		revisions: ws.NewRevisionGenerator(),
	}
}

type validationPayload struct {
	TestStringValue string `json:"test_string_value"`
	TestIntValue    int    `json:"test_int_value"`
}

func (s *ValidationSuite) Run(t *testing.T) {
	t.Run("reads an empty stream", s.ReadsEmptyStream)
	t.Run("appends a single entry", s.AppendsSingleEntry)
	t.Run("appends multiple entries in one call", s.AppendsMultipleEntries)
	t.Run("reads entries in revision order", s.ReadsInRevisionOrder)
	t.Run("rejects duplicate revisions", s.RejectsDuplicateRevisions)
	t.Run("rejects empty appends", s.RejectsEmptyAppends)
	t.Run("keeps streams apart", s.KeepsStreamsApart)
}

func (s *ValidationSuite) MakeTestStream() Stream {
	return Stream("go-test-" + ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String())
}

func (s *ValidationSuite) MakeTestEntry(stream Stream) Entry {
	revision := s.revisions.NewRevision(time.Now())
	data, err := ws.MarshalToData(validationPayload{
		TestStringValue: s.faker.Lorem().Sentence(10),
		TestIntValue:    s.faker.Int(),
	})
	if err != nil {
		panic(err)
	}

	return Entry{
		Stream:    stream,
		Revision:  revision,
		Action:    "test/validated",
		Timestamp: revision.Timestamp(),
		Data:      data,
	}
}

func (s *ValidationSuite) MakeTestEntries(stream Stream, count int) []Entry {
	entries := make([]Entry, count)
	for i := 0; i < count; i++ {
		entries[i] = s.MakeTestEntry(stream)
	}

	return entries
}

func (s *ValidationSuite) ReadsEmptyStream(t *testing.T) {
	entries, err := s.journal.Read(s.ctx, s.MakeTestStream())

	if !assert.Nil(t, err) {
		return
	}

	assert.Empty(t, entries)
}

func (s *ValidationSuite) AppendsSingleEntry(t *testing.T) {
	stream := s.MakeTestStream()
	entry := s.MakeTestEntry(stream)

	if !assert.Nil(t, s.journal.Append(s.ctx, entry)) {
		return
	}

	entries, err := s.journal.Read(s.ctx, stream)
	if !assert.Nil(t, err) {
		return
	}

	assert.Equal(t, []Entry{entry}, entries)
}

func (s *ValidationSuite) AppendsMultipleEntries(t *testing.T) {
	stream := s.MakeTestStream()
	entries := s.MakeTestEntries(stream, 17)

	if !assert.Nil(t, s.journal.Append(s.ctx, entries...)) {
		return
	}

	loaded, err := s.journal.Read(s.ctx, stream)
	if !assert.Nil(t, err) {
		return
	}

	assert.Len(t, loaded, 17)
}

func (s *ValidationSuite) ReadsInRevisionOrder(t *testing.T) {
	stream := s.MakeTestStream()
	entries := s.MakeTestEntries(stream, 5)

	for i := len(entries) - 1; i >= 0; i-- {
		if !assert.Nil(t, s.journal.Append(s.ctx, entries[i])) {
			return
		}
	}

	loaded, err := s.journal.Read(s.ctx, stream)
	if !assert.Nil(t, err) {
		return
	}

	assert.Equal(t, entries, loaded)
}

func (s *ValidationSuite) RejectsDuplicateRevisions(t *testing.T) {
	stream := s.MakeTestStream()
	entry := s.MakeTestEntry(stream)

	if !assert.Nil(t, s.journal.Append(s.ctx, entry)) {
		return
	}

	err := s.journal.Append(s.ctx, entry)
	assert.Equal(t, DuplicateEntry, err)

	loaded, err := s.journal.Read(s.ctx, stream)
	if !assert.Nil(t, err) {
		return
	}

	assert.Len(t, loaded, 1)
}

func (s *ValidationSuite) RejectsEmptyAppends(t *testing.T) {
	assert.Equal(t, EmptyAppend, s.journal.Append(s.ctx))
}

func (s *ValidationSuite) KeepsStreamsApart(t *testing.T) {
	first := s.MakeTestStream()
	second := s.MakeTestStream()

	if !assert.Nil(t, s.journal.Append(s.ctx, s.MakeTestEntries(first, 2)...)) {
		return
	}
	if !assert.Nil(t, s.journal.Append(s.ctx, s.MakeTestEntry(second))) {
		return
	}

	loaded, err := s.journal.Read(s.ctx, first)
	if !assert.Nil(t, err) {
		return
	}
	assert.Len(t, loaded, 2)

	loaded, err = s.journal.Read(s.ctx, second)
	if !assert.Nil(t, err) {
		return
	}
	assert.Len(t, loaded, 1)
}
