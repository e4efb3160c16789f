package reading

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tarot-bot/internal/cache"
	"tarot-bot/internal/ephemeris"
	"tarot-bot/internal/models"
	"tarot-bot/pkg/logger"
)

type fakeGenerator struct {
	calls   int
	systems []string
	prompts []string
	err     error
}

func (f *fakeGenerator) Generate(_ context.Context, system, prompt string) (string, error) {
	f.calls++
	f.systems = append(f.systems, system)
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return "narrative", nil
}

type countingResolver struct {
	calls int
	inner *ephemeris.Resolver
}

func (r *countingResolver) Resolve(q models.BirthQuery) ([]ephemeris.Position, error) {
	r.calls++
	return r.inner.Resolve(q)
}

func newService(gen Generator) (*Service, *countingResolver) {
	res := &countingResolver{inner: ephemeris.NewResolver()}
	return NewService(gen,
		res,
		cache.NewResponseCache(cache.NewUnbounded()),
		cache.NewResponseCache(cache.NewUnbounded()),
		logger.NewNop(),
	), res
}

func TestTarotIsCached(t *testing.T) {
	gen := &fakeGenerator{}
	svc, _ := newService(gen)

	first, err := svc.Tarot(context.Background(), "Анна, 24, любовь")
	require.NoError(t, err)
	second, err := svc.Tarot(context.Background(), "Анна, 24, любовь")
	require.NoError(t, err)

	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, first, second)
	assert.Equal(t, tarotSystem, gen.systems[0])
	assert.Contains(t, gen.prompts[0], "Запрос:\nАнна, 24, любовь\n")
	assert.Contains(t, gen.prompts[0], "укажи 3 карты")
	assert.Equal(t, int64(1), svc.Stats()[models.ReadingTarot].Hits)
}

func TestTarotGenerationError(t *testing.T) {
	boom := errors.New("upstream 502")
	gen := &fakeGenerator{err: boom}
	svc, _ := newService(gen)

	_, err := svc.Tarot(context.Background(), "Анна, 24, любовь")
	assert.ErrorIs(t, err, ErrGeneration)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, svc.Stats()[models.ReadingTarot].Entries)

	gen.err = nil
	_, err = svc.Tarot(context.Background(), "Анна, 24, любовь")
	require.NoError(t, err)
	assert.Equal(t, 2, gen.calls, "failed attempt was not cached")
}

func TestChartPromptAndCache(t *testing.T) {
	gen := &fakeGenerator{}
	svc, res := newService(gen)
	q, err := models.ParseBirthQuery("12.03.1995, 14:45, Москва")
	require.NoError(t, err)

	_, err = svc.Chart(context.Background(), q)
	require.NoError(t, err)
	_, err = svc.Chart(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, 1, res.calls, "cache hit skips the resolver")
	assert.Equal(t, chartSystem, gen.systems[0])

	prompt := gen.prompts[0]
	assert.Contains(t, prompt, "Город: Москва\nДата: 12.03.1995 14:45\n\nПланеты:\n")
	assert.Contains(t, prompt, "Солнце: ")
	assert.Contains(t, prompt, "в знаке Рыб")

	sun := strings.Index(prompt, "Солнце")
	saturn := strings.Index(prompt, "Сатурн")
	assert.True(t, sun < saturn, "bodies appear in fixed order")
}

func TestTarotAndChartCachesAreSeparate(t *testing.T) {
	gen := &fakeGenerator{}
	svc, _ := newService(gen)
	raw := "12.03.1995, 14:45, Москва"
	q, err := models.ParseBirthQuery(raw)
	require.NoError(t, err)

	_, err = svc.Tarot(context.Background(), raw)
	require.NoError(t, err)
	_, err = svc.Chart(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, 2, gen.calls)
}

func TestChartOutOfRange(t *testing.T) {
	gen := &fakeGenerator{}
	svc, _ := newService(gen)
	q, err := models.ParseBirthQuery("01.01.1650, 12:00, London")
	require.NoError(t, err)

	_, err = svc.Chart(context.Background(), q)
	assert.ErrorIs(t, err, ErrResolve)
	assert.ErrorIs(t, err, ephemeris.ErrOutOfRange)
	assert.Equal(t, 0, gen.calls)
}
