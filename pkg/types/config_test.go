package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	c := Defaults()

	assert.True(t, c.Normalize.RemoveStopwords)
	assert.False(t, c.Normalize.Lemmatize)
	assert.Equal(t, EmbeddingHashing, c.Embedding.Backend)
	assert.Equal(t, 384, c.Embedding.Dim)
	assert.Equal(t, CacheSQLite, c.Store.Cache)
	assert.Equal(t, "dataset", c.Dataset.Dir)
	assert.Equal(t, DefaultConferences, c.Dataset.Conferences)
	assert.Equal(t, 60*time.Second, c.Embedding.Timeout)
	assert.Equal(t, ExtractorNative, c.Dataset.Extractor)
	assert.Empty(t, c.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		fields []string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name: "venue model without binary model",
			mutate: func(c *Config) {
				c.Classifier.VenueModel = "models/venue.yaml"
			},
			fields: []string{"classifier.binary_model"},
		},
		{
			name: "unknown embedding backend",
			mutate: func(c *Config) {
				c.Embedding.Backend = "word2vec"
			},
			fields: []string{"embedding.backend"},
		},
		{
			name: "ollama with bad url",
			mutate: func(c *Config) {
				c.Embedding.Backend = EmbeddingOllama
				c.Embedding.BaseURL = "localhost"
			},
			fields: []string{"embedding.base_url"},
		},
		{
			name: "pgvector without dsn and negative workers",
			mutate: func(c *Config) {
				c.Store.Cache = CachePGVector
				c.Pipeline.Workers = -1
			},
			fields: []string{"store.pgvector_dsn", "pipeline.workers"},
		},
		{
			name: "unknown extractor",
			mutate: func(c *Config) {
				c.Dataset.Extractor = "ocr"
			},
			fields: []string{"dataset.extractor"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Defaults()
			tt.mutate(&c)

			errs := c.Validate()
			got := make([]string, len(errs))
			for i, e := range errs {
				got[i] = e.Field
			}
			if len(tt.fields) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.fields, got)
		})
	}
}

func TestReferenceCorpus(t *testing.T) {
	docs := []Document{
		{ID: "a.pdf", IsReference: true, Label: &Label{Publishable: true, Conference: "KDD"}},
		{ID: "query.pdf"},
		{ID: "b.pdf", IsReference: true, Label: &Label{Publishable: false, Conference: NoConference}},
		{ID: "c.pdf", IsReference: true, Label: &Label{Publishable: true, Conference: "CVPR"}},
		{ID: "d.pdf", IsReference: true, Label: &Label{Publishable: true, Conference: "KDD"}},
	}

	c := NewReferenceCorpus(docs)

	assert.Equal(t, 4, c.Len())
	assert.Equal(t, []string{"a.pdf", "b.pdf", "c.pdf", "d.pdf"}, c.IDs())
	assert.Equal(t, []string{"CVPR", "KDD"}, c.Conferences())
	assert.Len(t, c.ByConference("KDD"), 2)
	assert.Len(t, c.NonPublishable(), 1)

	ref, ok := c.Lookup("c.pdf")
	assert.True(t, ok)
	assert.Equal(t, "CVPR", ref.Conference())

	_, ok = c.Lookup("query.pdf")
	assert.False(t, ok)
}

func TestDocumentLabels(t *testing.T) {
	assert.Equal(t, NoConference, Document{ID: "x"}.Conference())
	assert.False(t, Document{ID: "x"}.Publishable())
	assert.Equal(t, "TMLR", Document{Label: &Label{Publishable: true, Conference: "TMLR"}}.Conference())
}
