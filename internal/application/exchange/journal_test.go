package exchange_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/jhoicas/catalog-exchange/internal/application/exchange"
	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
	"github.com/jhoicas/catalog-exchange/internal/infrastructure/memory"
)

func TestMatchLocale(t *testing.T) {
	tests := map[string]language.Tag{
		"":                 language.Russian,
		"ru-RU":            language.Russian,
		"en-US,en;q=0.9":   language.English,
		"es-CO,es;q=0.9":   language.Spanish,
		"de":               language.Russian,
		"not a locale!!;q": language.Russian,
	}
	for in, want := range tests {
		assert.Equal(t, want, exchange.MatchLocale(in), in)
	}
}

func TestJournal_MensajesEnElIdiomaDelJob(t *testing.T) {
	store := memory.NewStore()
	j := exchange.NewJournal(store, zerolog.Nop())
	ctx := context.Background()

	for _, locale := range []string{"en", "es", "ru", ""} {
		job := &entity.ExchangeJob{ID: "job-" + locale, Locale: locale}
		j.Success(ctx, job, exchange.MsgProductImported, "A1")
		j.Failure(ctx, job, exchange.MsgOfferFailed, "A1", "product not found")
	}

	assert.Equal(t, "product A1 imported", store.Logs("job-en", entity.LogSuccess)[0].Message)
	assert.Equal(t, "producto A1 importado", store.Logs("job-es", entity.LogSuccess)[0].Message)
	assert.Equal(t, "товар A1 загружен", store.Logs("job-ru", entity.LogSuccess)[0].Message)
	assert.Equal(t, "товар A1 загружен", store.Logs("job-", entity.LogSuccess)[0].Message)
	assert.Equal(t, "oferta A1: product not found", store.Logs("job-es", entity.LogError)[0].Message)

	entries, err := j.Entries(ctx, "job-en", 10, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

type failingLogRepo struct{}

func (failingLogRepo) Append(context.Context, *entity.ExchangeLog) error {
	return errors.New("disk full")
}

func (failingLogRepo) ListByJob(context.Context, string, int, int) ([]*entity.ExchangeLog, error) {
	return nil, nil
}

func TestJournal_FalloDeEscrituraNoPropaga(t *testing.T) {
	j := exchange.NewJournal(failingLogRepo{}, zerolog.Nop())
	job := &entity.ExchangeJob{ID: "job-1", Locale: "en"}
	assert.NotPanics(t, func() {
		j.Success(context.Background(), job, exchange.MsgProductImported, "A1")
		j.Failure(context.Background(), job, exchange.MsgProductFailed, "A1", "boom")
	})
}
