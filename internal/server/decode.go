package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"vigenere/internal/ctxlog"
	"vigenere/internal/decoder"
	"vigenere/internal/journal"
	"vigenere/internal/key"
	"vigenere/internal/message"
)

func writeText(w http.ResponseWriter, r *http.Request, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=us-ascii")
	w.Header().Set("Content-Length", strconv.Itoa(len(text)))
	w.WriteHeader(status)
	if _, err := w.Write([]byte(text)); err != nil {
		log := ctxlog.Get(r.Context())
		log.Error("failed to write response", "error", err)
	}
}

func decodeHandler(maxBody int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := ctxlog.Get(r.Context())

		k, err := key.Parse(r.URL.Query().Get("key"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		src, err := message.Read(http.MaxBytesReader(w, r.Body, maxBody))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		dec, err := decoder.New(src, k)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := dec.Decode(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		text, err := dec.Text()
		if err != nil {
			panic(err)
		}

		if journal.Opened() {
			id, err := journal.Add(journal.Record{
				Source:  src.String(),
				Key:     dec.Key(),
				Lines:   src.LineCount(),
				Decoded: text,
			})
			if err != nil {
				log.Error("failed to journal decode", "error", err)
			} else {
				w.Header().Set("X-Decode-Id", id)
			}
		}

		log.Info("decoded message", "lines", src.LineCount(), "key_len", len(k))
		writeText(w, r, http.StatusOK, text)
	})
}

func recordHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !journal.Opened() {
			http.NotFound(w, r)
			return
		}

		rec, ok, err := journal.Get(r.PathValue("id"))
		if err != nil {
			panic(err)
		}
		if !ok {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(rec); err != nil {
			log := ctxlog.Get(r.Context())
			log.Error("failed to write response", "error", err)
		}
	})
}
