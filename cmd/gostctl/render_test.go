package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lk2023060901/gost-search/internal/analysis/types"
	"github.com/lk2023060901/gost-search/internal/client"
)

func TestPrinter_StreamsBodyAfterStatus(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf)

	p.observe(client.View{State: client.StateLoading, DocumentStatus: client.PendingStatus})
	p.observe(client.View{State: client.StateStreaming, DocumentStatus: client.PendingStatus})
	assert.Empty(t, buf.String())

	v := client.View{State: client.StateStreaming, StatusFound: true, DocumentStatus: "Действует", Classification: types.StatusActive, Body: "Раздел 1"}
	p.observe(v)
	v.Body += ". Раздел 2"
	p.observe(v)
	v.State = client.StateSuccess
	p.observe(v)
	p.finish()

	assert.Equal(t, "Статус: Действует [active]\n\nРаздел 1. Раздел 2\n", buf.String())
}

func TestPrinter_SuccessWithoutStatusLine(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf)

	p.observe(client.View{State: client.StateStreaming, DocumentStatus: client.PendingStatus})
	p.observe(client.View{State: client.StateSuccess, DocumentStatus: client.PendingStatus})
	p.finish()

	assert.Equal(t, "Статус: "+client.PendingStatus+"\n", buf.String())
}
