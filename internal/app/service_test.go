package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/cefrtag/internal/config"
	"github.com/corey/cefrtag/internal/domain/vocab"
	"github.com/corey/cefrtag/internal/ports"
)

func newTestService(t *testing.T, src *fakeSource) *Service {
	t.Helper()
	return NewService(NewRegistry(src, config.TaggerConfig{}, quietLogger()))
}

func TestService_Tag(t *testing.T) {
	svc := newTestService(t, &fakeSource{src: testSource()})

	occs, err := svc.Tag(context.Background(), "The doctor has a car.")
	require.NoError(t, err)

	var got []string
	for _, o := range occs {
		got = append(got, fmt.Sprintf("%s|%s|%s", o.Token, o.Entry, o.Level))
	}
	assert.Equal(t, []string{
		"doctor|doctor / Dr|B1",
		"a|a/an|A1", // positioned at the first "a" of the text, inside "has"
		"car|car|A1",
		"car|car|B1",
	}, got)
}

func TestService_Report(t *testing.T) {
	svc := newTestService(t, &fakeSource{src: testSource()})

	r, err := svc.Report(context.Background(), "A stick and a car")
	require.NoError(t, err)

	assert.Equal(t, []string{"A -> a/an", "car"}, r.TaggedWords[vocab.A1], "a repeats A in another case")
	assert.Equal(t, []string{"stick -> stick (piece of wood)"}, r.TaggedWords[vocab.A2])
	assert.Equal(t, []string{"car"}, r.TaggedWords[vocab.B1])
	assert.Equal(t, 4, r.Stats.TotalTagged)
}

func TestService_Stats(t *testing.T) {
	svc := newTestService(t, &fakeSource{src: testSource()})

	st, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "A2", "B1"}, st.Levels)
	assert.Equal(t, 7, st.TotalWords)
	assert.Equal(t, map[string]int{"A1": 4, "A2": 1, "B1": 2, "total": 7}, st.VocabularyStats)
}

func TestService_StatsDegraded(t *testing.T) {
	svc := newTestService(t, &fakeSource{err: vocab.ErrSourceUnavailable})

	st, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, st.TotalWords)
	assert.Equal(t, []string{"A1", "A2", "B1", "B2", "C1"}, st.Levels)
	for _, l := range st.Levels {
		assert.Zero(t, st.VocabularyStats[l])
	}

	h := svc.Health()
	assert.Equal(t, ports.HealthDegraded, h.Status)
	assert.True(t, h.Ready)
	assert.NotEmpty(t, h.Error)
}

func TestService_Check(t *testing.T) {
	svc := newTestService(t, &fakeSource{src: testSource()})

	res, err := svc.Check(context.Background(), "Dr")
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, []vocab.Ref{{Entry: "doctor / Dr", Level: vocab.B1}}, res.Occurrences)

	res, err = svc.Check(context.Background(), "zebra")
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.NotNil(t, res.Occurrences)
}

func TestService_Level(t *testing.T) {
	svc := newTestService(t, &fakeSource{src: testSource()})

	res, err := svc.Level(context.Background(), "a1", 2)
	require.NoError(t, err)
	assert.Equal(t, "A1", res.Level)
	assert.Equal(t, 4, res.WordCount)
	assert.Equal(t, []string{"a/an", "apple"}, res.Words)
	assert.Equal(t, "Showing first 2 words of 4 total words for level A1", res.Message)

	res, err = svc.Level(context.Background(), "B1", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"car", "doctor / Dr"}, res.Words)
	assert.Contains(t, res.Message, "first 100 words")

	_, err = svc.Level(context.Background(), "C2", 0)
	assert.ErrorIs(t, err, vocab.ErrUnknownLevel)
}

func TestService_HealthLoading(t *testing.T) {
	svc := newTestService(t, &fakeSource{src: testSource()})

	h := svc.Health()
	assert.Equal(t, ports.HealthLoading, h.Status)
	assert.False(t, h.Ready)

	_, err := svc.Tag(context.Background(), "x")
	require.NoError(t, err)

	h = svc.Health()
	assert.Equal(t, ports.HealthOK, h.Status)
	assert.Equal(t, 7, h.Entries)
	assert.Equal(t, "fake", h.Source)
}

func TestService_Reload(t *testing.T) {
	src := &fakeSource{src: testSource()}
	svc := newTestService(t, src)

	h, err := svc.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), h.Generation)

	src.set(nil, vocab.ErrSourceUnavailable)
	h, err = svc.Reload(context.Background())
	assert.ErrorIs(t, err, vocab.ErrSourceUnavailable)
	assert.Equal(t, ports.HealthOK, h.Status)
	assert.Equal(t, uint64(1), h.Generation)
}
