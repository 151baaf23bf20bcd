package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/gost-search/internal/analysis/types"
	"github.com/lk2023060901/gost-search/internal/pkg/logger"
)

func frame(content string) string {
	return `data: {"choices":[{"delta":{"content":"` + content + `"}}]}` + "\n\n"
}

func newTestSession() (*Session, *[]View) {
	var seen []View
	s := NewSession(nil, func(v View) { seen = append(seen, v) }, logger.NewNop())
	s.Start()
	return s, &seen
}

func runChunks(chunks ...string) View {
	s, _ := newTestSession()
	for _, c := range chunks {
		if s.Feed([]byte(c)) {
			break
		}
	}
	s.End()
	return s.View()
}

func TestSession_StatusAndBody(t *testing.T) {
	view := runChunks(frame(`Статус: Действует\nДокумент `) + frame("устанавливает") + "data: [DONE]\n\n")

	assert.Equal(t, StateSuccess, view.State)
	assert.True(t, view.StatusFound)
	assert.Equal(t, "Действует", view.DocumentStatus)
	assert.Equal(t, types.StatusActive, view.Classification)
	assert.Equal(t, "Документ устанавливает", view.Body)
	assert.Empty(t, view.Error)
}

func TestSession_ChunkingIndependence(t *testing.T) {
	stream := frame(`Стат`) + frame(`ус: Отменен\nЗаменен `) + "data: not-json\n\n" + frame("ГОСТ Р 2.105-2019") + "data: [DONE]\n\n"
	want := runChunks(stream)
	require.Equal(t, StateSuccess, want.State)
	assert.Equal(t, "Отменен", want.DocumentStatus)
	assert.Equal(t, types.StatusInactive, want.Classification)
	assert.Equal(t, "Заменен ГОСТ Р 2.105-2019", want.Body)

	for i := 1; i < len(stream); i++ {
		got := runChunks(stream[:i], stream[i:])
		assert.Equal(t, want, got, "split at byte %d", i)
	}

	bytewise := make([]string, 0, len(stream))
	for i := 0; i < len(stream); i++ {
		bytewise = append(bytewise, stream[i:i+1])
	}
	assert.Equal(t, want, runChunks(bytewise...))
}

func TestSession_Transitions(t *testing.T) {
	s, seen := newTestSession()
	s.Feed([]byte(frame(`Статус: Действует\n`)))
	s.Feed([]byte("data: [DONE]\n\n"))

	states := make([]State, 0, len(*seen))
	for _, v := range *seen {
		states = append(states, v.State)
	}
	assert.Equal(t, []State{StateLoading, StateStreaming, StateStreaming, StateSuccess}, states)
	assert.Equal(t, PendingStatus, (*seen)[0].DocumentStatus)
}

func TestSession_Terminal(t *testing.T) {
	tests := []struct {
		name       string
		chunks     []string
		wantState  State
		wantError  string
		wantStatus string
	}{
		{
			name:      "error frame",
			chunks:    []string{frame("Статус: Действует\nначало"), `data: {"error":"Token expired"}` + "\n\n"},
			wantState: StateError,
			wantError: "Token expired",
		},
		{
			name:      "error object",
			chunks:    []string{`data: {"error":{"message":"rate limited"}}` + "\n\n"},
			wantState: StateError,
			wantError: "rate limited",
		},
		{
			name:      "done without content",
			chunks:    []string{"data: [DONE]\n\n"},
			wantState: StateError,
			wantError: EmptyResponseMessage,
		},
		{
			name:      "eof without content",
			chunks:    []string{": keep-alive\n\n"},
			wantState: StateError,
			wantError: EmptyResponseMessage,
		},
		{
			name:       "eof after content",
			chunks:     []string{frame(`Статус: Действует\nтекст`)},
			wantState:  StateSuccess,
			wantStatus: "Действует",
		},
		{
			name:       "done without trailing newline",
			chunks:     []string{frame(`Статус: Отменен\n`), "data: [DONE]"},
			wantState:  StateSuccess,
			wantStatus: "Отменен",
		},
		{
			name:       "answer without newline keeps placeholder",
			chunks:     []string{frame("Статус: Не определен"), "data: [DONE]\n\n"},
			wantState:  StateSuccess,
			wantStatus: PendingStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := runChunks(tt.chunks...)
			assert.Equal(t, tt.wantState, view.State)
			assert.Equal(t, tt.wantError, view.Error)
			assert.Equal(t, tt.wantStatus, view.DocumentStatus)
		})
	}
}

func TestSession_IgnoresAfterTerminal(t *testing.T) {
	s, _ := newTestSession()
	assert.True(t, s.Feed([]byte(`data: {"error":"boom"}`+"\n\n")))
	assert.True(t, s.Feed([]byte(frame(`Статус: Действует\n`))))
	s.End()

	view := s.View()
	assert.Equal(t, StateError, view.State)
	assert.Equal(t, "boom", view.Error)
	assert.False(t, view.StatusFound)
}

func TestSession_StartResets(t *testing.T) {
	s, _ := newTestSession()
	s.Feed([]byte(frame(`Статус: Действует\nтекст`) + "data: [DONE]\n\n"))
	s.Feed([]byte("data: {\"choi"))
	require.Equal(t, StateSuccess, s.View().State)

	s.Start()
	assert.Equal(t, View{State: StateLoading, DocumentStatus: PendingStatus}, s.View())

	s.Feed([]byte(frame(`Статус: Отменен\n`) + "data: [DONE]\n\n"))
	assert.Equal(t, "Отменен", s.View().DocumentStatus)
	assert.Empty(t, s.View().Body)
}
