package main

import (
	"fmt"
	"io"

	"github.com/lk2023060901/gost-search/internal/client"
)

// printer writes a view to w as it grows
type printer struct {
	w          io.Writer
	statusDone bool
	printed    int
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w}
}

func (p *printer) observe(v client.View) {
	if v.State == client.StateSuccess && !v.StatusFound && !p.statusDone {
		p.statusDone = true
		fmt.Fprintf(p.w, "Статус: %s\n", v.DocumentStatus)
		return
	}
	if v.StatusFound && !p.statusDone {
		p.statusDone = true
		fmt.Fprintf(p.w, "Статус: %s [%s]\n\n", v.DocumentStatus, v.Classification)
	}
	if !p.statusDone || len(v.Body) <= p.printed {
		return
	}
	fmt.Fprint(p.w, v.Body[p.printed:])
	p.printed = len(v.Body)
}

// finish ends the body with a newline
func (p *printer) finish() {
	if p.printed > 0 {
		fmt.Fprintln(p.w)
	}
}
