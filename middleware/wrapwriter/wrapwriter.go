// Package wrapwriter embrulha http.ResponseWriter para observar o status
// escrito pelo handler.
package wrapwriter

import "net/http"

type Writer struct {
	http.ResponseWriter
	status int
	bytes  int
}

func Wrap(w http.ResponseWriter) *Writer {
	if ww, ok := w.(*Writer); ok {
		return ww
	}
	return &Writer{ResponseWriter: w}
}

func (w *Writer) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *Writer) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Status é o código enviado; 200 se nada foi escrito explicitamente.
func (w *Writer) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// Written indica se o cabeçalho de resposta já saiu.
func (w *Writer) Written() bool { return w.status != 0 }

func (w *Writer) BytesWritten() int { return w.bytes }

// Unwrap permite que http.ResponseController alcance o writer original.
func (w *Writer) Unwrap() http.ResponseWriter { return w.ResponseWriter }
