package ulpcl

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.ulpcl.dev/internal/test"
)

func lexAll(t *testing.T, data string) (TokenStream, *ReportCounters, bool) {
	t.Helper()
	var counters ReportCounters
	rep := newReporter(&counters, nil, "test.ulp")

	l := NewLexer(rep)
	ok := l.Analyze([]byte(data))
	if ok {
		ok = l.CompleteAnalysis()
	}
	return l.Stream(), &counters, ok
}

func TestLexer(t *testing.T) {
	cases := []struct {
		name   string
		data   string
		fail   bool
		expect []Token
	}{
		{
			name: "keywords and brackets",
			data: "@language:\"en-US\"\n",
			expect: []Token{
				{Type: TokenKeyword, Data: "@language", Location: TokenLocation{Line: 1, Column: 1}},
				{Type: TokenColon, Data: ":", Location: TokenLocation{Line: 1, Column: 10}},
				{Type: TokenStringLiteral, Data: "en-US", Location: TokenLocation{Line: 1, Column: 11}},
			},
		},
		{
			name: "group with identifier",
			data: "@group : \"g\" {\n  #id: \"value\"\n}\n",
			expect: []Token{
				{Type: TokenKeyword, Data: "@group", Location: TokenLocation{Line: 1, Column: 1}},
				{Type: TokenColon, Data: ":", Location: TokenLocation{Line: 1, Column: 8}},
				{Type: TokenStringLiteral, Data: "g", Location: TokenLocation{Line: 1, Column: 10}},
				{Type: TokenLeftCurly, Data: "{", Location: TokenLocation{Line: 1, Column: 14}},
				{Type: TokenIdentifier, Data: "#id", Location: TokenLocation{Line: 2, Column: 3}},
				{Type: TokenColon, Data: ":", Location: TokenLocation{Line: 2, Column: 6}},
				{Type: TokenStringLiteral, Data: "value", Location: TokenLocation{Line: 2, Column: 8}},
				{Type: TokenRightCurly, Data: "}", Location: TokenLocation{Line: 3, Column: 1}},
			},
		},
		{
			name: "comment is discarded",
			data: "// a comment\n#id: \"v\"\n",
			expect: []Token{
				{Type: TokenIdentifier, Data: "#id", Location: TokenLocation{Line: 2, Column: 1}},
				{Type: TokenColon, Data: ":", Location: TokenLocation{Line: 2, Column: 4}},
				{Type: TokenStringLiteral, Data: "v", Location: TokenLocation{Line: 2, Column: 6}},
			},
		},
		{
			name: "escaped quote inside string",
			data: `#id: "a \"quoted\" word"` + "\n",
			expect: []Token{
				{Type: TokenIdentifier, Data: "#id", Location: TokenLocation{Line: 1, Column: 1}},
				{Type: TokenColon, Data: ":", Location: TokenLocation{Line: 1, Column: 4}},
				{Type: TokenStringLiteral, Data: `a "quoted" word`, Location: TokenLocation{Line: 1, Column: 6}},
			},
		},
		{
			name: "unclosed string literal",
			data: "#id: \"unclosed\n",
			fail: true,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			stream, counters, ok := lexAll(t, c.data)
			if c.fail {
				assert.False(t, ok)
				assert.Greater(t, counters.Errors, 0)
				return
			}

			assert.True(t, ok)
			assert.Equal(t, TokenStream(c.expect), stream)
		})
	}
}

func TestLexerChunkBoundarySplitsToken(t *testing.T) {
	var counters ReportCounters
	rep := newReporter(&counters, nil, "test.ulp")
	l := NewLexer(rep)

	data := "#greeting: \"hello\"\n"
	mid := len(data) / 2
	assert.True(t, l.Analyze([]byte(data[:mid])))
	assert.True(t, l.Analyze([]byte(data[mid:])))
	assert.True(t, l.CompleteAnalysis())

	stream := l.Stream()
	assert.Len(t, stream, 3)
	assert.Equal(t, TokenIdentifier, stream[0].Type)
	assert.Equal(t, "#greeting", stream[0].Data)
	assert.Equal(t, TokenStringLiteral, stream[2].Type)
	assert.Equal(t, "hello", stream[2].Data)
}

var benchResult TokenStream

func benchmarkLexer(size int, b *testing.B) {
	for n := 0; n < b.N; n++ {
		b.StopTimer()
		data := []byte(test.GetRandomTokens(size))
		var counters ReportCounters
		rep := newReporter(&counters, nil, "bench.ulp")
		l := NewLexer(rep)
		b.StartTimer()

		l.Analyze(data)
		l.CompleteAnalysis()
		benchResult = l.Stream()
	}
}

func BenchmarkLexer100(b *testing.B)    { benchmarkLexer(100, b) }
func BenchmarkLexer1000(b *testing.B)   { benchmarkLexer(1000, b) }
func BenchmarkLexer10000(b *testing.B)  { benchmarkLexer(10000, b) }
func BenchmarkLexer100000(b *testing.B) { benchmarkLexer(100000, b) }
