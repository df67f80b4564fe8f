package iocli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Проверяем что NewStdio возвращает валидный объект
func TestNewStdio(t *testing.T) {
	assert.NotNil(t, NewStdio())
}

func TestStreams_Output(t *testing.T) {
	var out bytes.Buffer
	s := NewStreams(strings.NewReader(""), &out)

	s.Println("hello", "world")
	s.Printf("test %d %s\n", 1, "abc")
	_, err := s.Write([]byte("raw"))
	require.NoError(t, err)

	assert.Equal(t, "hello world\ntest 1 abc\nraw", out.String())
}

func TestStreams_ReadInput(t *testing.T) {
	var out bytes.Buffer
	s := NewStreams(strings.NewReader("  user input \nsecond\n"), &out)

	first, err := s.ReadInput("Prompt: ")
	require.NoError(t, err)
	assert.Equal(t, "user input", first)

	second, err := s.ReadPassword("Password: ")
	require.NoError(t, err)
	assert.Equal(t, "second", second)

	assert.Equal(t, "Prompt: Password: ", out.String())
}

func TestStreams_ReadInputWithoutNewline(t *testing.T) {
	s := NewStreams(strings.NewReader("last line"), io.Discard)

	got, err := s.ReadInput("> ")
	require.NoError(t, err)
	assert.Equal(t, "last line", got)

	_, err = s.ReadInput("> ")
	assert.ErrorIs(t, err, io.EOF)
}
