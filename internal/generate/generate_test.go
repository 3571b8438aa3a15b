package generate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/roach88/designrail/internal/card"
	"github.com/roach88/designrail/internal/schema"
	"github.com/roach88/designrail/internal/testutil"
)

const mockupJSON = `{
  "kind": "mockup",
  "title": "Calmer dashboard",
  "description": "Fewer widgets.",
  "regions": [
    {"id": "nav", "label": "Navigation", "layout": "library", "role": "sidebar"},
    {"id": "main", "label": "Main", "layout": "bookcase"}
  ]
}`

func newFinisher(t *testing.T) *Finisher {
	t.Helper()
	v, err := schema.NewValidator()
	require.NoError(t, err)
	return NewFinisher(v, testutil.NewSequenceGenerator("gen"))
}

func mockupRequest() Request {
	return Request{Kind: card.KindMockup, Schema: schema.Mockup, System: "sys", Context: "ctx"}
}

func TestFinish_AssignsMissingID(t *testing.T) {
	f := newFinisher(t)

	c, err := f.Finish(mockupRequest(), []byte(mockupJSON))
	require.NoError(t, err)

	m, ok := c.(*card.MockupCard)
	require.True(t, ok)
	assert.Equal(t, "gen-1", m.ID)
	assert.Len(t, m.Regions, 2)
}

func TestFinish_KeepsExistingID(t *testing.T) {
	f := newFinisher(t)

	c, err := f.Finish(mockupRequest(), []byte(`{"kind":"mockup","id":"m-9","title":"T","regions":[{"id":"a","label":"A","layout":"shelf"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "m-9", c.Meta().ID)
}

func TestFinish_StripsFence(t *testing.T) {
	f := newFinisher(t)

	c, err := f.Finish(mockupRequest(), []byte("```json\n"+mockupJSON+"\n```"))
	require.NoError(t, err)
	assert.Equal(t, card.KindMockup, c.Kind())
}

func TestFinish_EmptyIsGenerationError(t *testing.T) {
	f := newFinisher(t)

	_, err := f.Finish(mockupRequest(), []byte("  \n"))
	assert.True(t, IsGenerationError(err))
	assert.False(t, schema.IsValidationError(err))
}

func TestFinish_SchemaFailureIsValidationError(t *testing.T) {
	f := newFinisher(t)

	_, err := f.Finish(mockupRequest(), []byte(`{"kind":"mockup","title":"T","regions":[]}`))
	require.Error(t, err)
	assert.True(t, schema.IsValidationError(err))
	assert.False(t, IsGenerationError(err))

	_, err = f.Finish(mockupRequest(), []byte(`{"kind":"lens","title":"T"}`))
	assert.True(t, schema.IsValidationError(err))
}

func TestFinish_UnionAcceptsAnyKind(t *testing.T) {
	f := newFinisher(t)

	c, err := f.Finish(Request{Kind: card.KindError, Schema: schema.Union}, []byte(mockupJSON))
	require.NoError(t, err)
	assert.Equal(t, card.KindMockup, c.Kind())
}

func TestFinish_DefaultsSchemaFromKind(t *testing.T) {
	f := newFinisher(t)

	_, err := f.Finish(Request{Kind: card.KindLens}, []byte(mockupJSON))
	var ve *schema.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, schema.Lens, ve.Schema)
}

func TestStatic_Sequence(t *testing.T) {
	f := newFinisher(t)
	boom := errors.New("quota exceeded")
	s := NewStatic(f, Response{JSON: mockupJSON}, Response{Err: boom})

	c, err := s.Generate(context.Background(), mockupRequest())
	require.NoError(t, err)
	assert.Equal(t, card.KindMockup, c.Kind())

	_, err = s.Generate(context.Background(), mockupRequest())
	require.Error(t, err)
	assert.True(t, IsGenerationError(err))
	assert.ErrorIs(t, err, boom)

	_, err = s.Generate(context.Background(), mockupRequest())
	assert.ErrorIs(t, err, boom, "last response repeats")

	assert.Len(t, s.Requests(), 3)
}

func TestStatic_NoResponses(t *testing.T) {
	s := NewStatic(newFinisher(t))
	_, err := s.Generate(context.Background(), mockupRequest())
	assert.True(t, IsGenerationError(err))
}

func TestStatic_CancelledContext(t *testing.T) {
	s := NewStatic(newFinisher(t), Response{JSON: mockupJSON})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Generate(ctx, mockupRequest())
	assert.True(t, IsGenerationError(err))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, s.Requests())
}

type fakeModels struct {
	text   string
	err    error
	empty  bool
	model  string
	config *genai.GenerateContentConfig
	prompt string
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.config = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.empty {
		return &genai.GenerateContentResponse{}, nil
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: genai.NewContentFromText(f.text, genai.RoleModel)},
		},
	}, nil
}

func TestGemini_Generate(t *testing.T) {
	fake := &fakeModels{text: mockupJSON}
	g := newGemini(fake, newFinisher(t), WithModel("gemini-test"))

	c, err := g.Generate(context.Background(), mockupRequest())
	require.NoError(t, err)
	assert.Equal(t, card.KindMockup, c.Kind())

	assert.Equal(t, "gemini-test", fake.model)
	assert.Equal(t, "gemini-test", g.Model())
	assert.Equal(t, "ctx", fake.prompt)
	require.NotNil(t, fake.config)
	assert.Equal(t, "application/json", fake.config.ResponseMIMEType)
	require.NotNil(t, fake.config.SystemInstruction)
	sys := fake.config.SystemInstruction.Parts[0].Text
	assert.Contains(t, sys, "sys")
	assert.Contains(t, sys, "regions")
}

func TestGemini_UpstreamFailure(t *testing.T) {
	boom := errors.New("503")
	g := newGemini(&fakeModels{err: boom}, newFinisher(t))

	_, err := g.Generate(context.Background(), mockupRequest())
	assert.True(t, IsGenerationError(err))
	assert.ErrorIs(t, err, boom)
}

func TestGemini_NoCandidates(t *testing.T) {
	g := newGemini(&fakeModels{empty: true}, newFinisher(t))

	_, err := g.Generate(context.Background(), mockupRequest())
	assert.True(t, IsGenerationError(err))
}

func TestGemini_InvalidCard(t *testing.T) {
	g := newGemini(&fakeModels{text: `{"kind":"mockup","title":""}`}, newFinisher(t))

	_, err := g.Generate(context.Background(), mockupRequest())
	assert.True(t, schema.IsValidationError(err))
}

func TestNewGeminiGenerator_RequiresKey(t *testing.T) {
	_, err := NewGeminiGenerator(context.Background(), "", newFinisher(t))
	assert.True(t, IsGenerationError(err))
}

func TestStripFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, string(stripFence([]byte("```\n{\"a\":1}\n```"))))
	assert.Equal(t, `{"a":1}`, string(stripFence([]byte(" {\"a\":1} "))))
	assert.Empty(t, stripFence([]byte("```")))
}
