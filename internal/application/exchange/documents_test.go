package exchange_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalog-exchange/internal/application/exchange"
	"github.com/jhoicas/catalog-exchange/internal/domain"
	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
)

func TestDocumentTypeFor(t *testing.T) {
	tests := []struct {
		name string
		want entity.DocumentType
		ok   bool
	}{
		{"import.xml", entity.DocCatalogImport, true},
		{"import0_1.xml", entity.DocCatalogImport, true},
		{"webdata/${b1}/Import.XML", entity.DocCatalogImport, true},
		{"offers0_1.xml", entity.DocOffersImport, true},
		{"products.xlsx", entity.DocTabularProducts, true},
		{"prices_2024.xlsx", entity.DocTabularPrices, true},
		{"balance.xlsx", entity.DocTabularBalances, true},
		{"import_files/ab/photo.jpg", "", false},
		{"rests.xml", "", false},
		{"products.csv", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := exchange.DocumentTypeFor(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBaseID(t *testing.T) {
	assert.Equal(t, "b1", exchange.BaseID("webdata/${b1}/import.xml"))
	assert.Equal(t, "x", exchange.BaseID("${x}_import${y}.xml"))
	assert.Equal(t, exchange.SharedBaseID, exchange.BaseID("import.xml"))
	assert.Equal(t, exchange.SharedBaseID, exchange.BaseID("${}.xml"))
	assert.Equal(t, exchange.SharedBaseID, exchange.BaseID("${abc.xml"))
}

func TestCleanFilename(t *testing.T) {
	name, err := exchange.CleanFilename(" import_files/./a.jpg ")
	require.NoError(t, err)
	assert.Equal(t, "import_files/a.jpg", name)

	for _, bad := range []string{"", "  ", "/etc/passwd", "../x.xml", "a/../../x.xml"} {
		_, err := exchange.CleanFilename(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidFilename, bad)
	}
}

func TestStaging_Path(t *testing.T) {
	s := exchange.Staging{Root: "/var/exchange"}

	p, err := s.Path("c1", "webdata/${b1}/import.xml")
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("/var/exchange/c1/b1/webdata/${b1}/import.xml"), p)

	p, err = s.Path("c1", "import.xml")
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("/var/exchange/c1/shared/import.xml"), p)

	_, err = s.Path("c1", "${..}/import.xml")
	assert.ErrorIs(t, err, domain.ErrInvalidFilename)
	_, err = s.Path("../c2", "import.xml")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStaging_ResolveAsset(t *testing.T) {
	s := exchange.Staging{Root: t.TempDir()}
	write := func(name string) {
		p, err := s.Path("c1", name)
		require.NoError(t, err)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(name), 0o644))
	}
	write("${b1}/import_files/a.jpg")
	write("import_files/b.jpg")

	jobPath, err := s.Path("c1", "${b1}/import.xml")
	require.NoError(t, err)
	job := &entity.ExchangeJob{CompanyID: "c1", Path: jobPath}
	assert.Equal(t, filepath.Join(s.Root, "c1", "b1"), s.JobDir(job))

	got, err := s.ResolveAsset(job, "${b1}/import_files/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Root, "c1", "b1", "${b1}", "import_files", "a.jpg"), got)

	got, err = s.ResolveAsset(job, "import_files/b.jpg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.SharedDir("c1"), "import_files", "b.jpg"), got)

	_, err = s.ResolveAsset(job, "import_files/missing.jpg")
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = s.ResolveAsset(job, "../../etc/passwd")
	assert.ErrorIs(t, err, domain.ErrInvalidFilename)
}
