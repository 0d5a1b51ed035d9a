package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"vigenere/internal/config"
	"vigenere/internal/ctxlog"
	"vigenere/internal/decoder"
	"vigenere/internal/journal"
	"vigenere/internal/key"
	"vigenere/internal/message"
	"vigenere/internal/rec"

	"golang.org/x/sync/errgroup"
)

type result struct {
	name string
	src  *message.Message
	dec  *decoder.Decoder
}

func decodeReader(name string, r io.Reader, k []int) (res result, err error) {
	defer rec.Wrap(&err, "%s: %w", name)

	src, err := message.Read(r)
	if err != nil {
		return result{}, err
	}

	dec, err := decoder.New(src, k)
	if err != nil {
		return result{}, err
	}
	if err := dec.Decode(); err != nil {
		return result{}, err
	}

	return result{name: name, src: src, dec: dec}, nil
}

func decodeFile(name string, k []int) (result, error) {
	file, err := os.Open(name)
	if err != nil {
		return result{}, fmt.Errorf("open %q: %w", name, err)
	}
	defer file.Close()

	return decodeReader(name, file, k)
}

func decodeFiles(ctx context.Context, files []string, k []int, workers int) ([]result, error) {
	results := make([]result, len(files))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, name := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			// Each file gets its own key slice so no two decoders share one.
			res, err := decodeFile(name, append([]int(nil), k...))
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func run(ctx context.Context, c config.Config, keyArg string, files []string) (err error) {
	defer rec.Error(&err)

	logger := ctxlog.Get(ctx)

	k, err := key.Parse(keyArg)
	if err != nil {
		return err
	}

	var results []result
	if len(files) == 0 {
		res, err := decodeReader("stdin", os.Stdin, k)
		if err != nil {
			return err
		}
		results = []result{res}
	} else {
		results, err = decodeFiles(ctx, files, k, c.Workers)
		if err != nil {
			return err
		}
	}

	if c.Journal.File != "" {
		logger.Info("opening journal")
		journal.Open(c.Journal)
		defer ctxlog.Close(ctx, "journal", journal.Closer())
	}

	for _, res := range results {
		text, err := res.dec.Text()
		if err != nil {
			return err
		}

		if journal.Opened() {
			id, err := journal.Add(journal.Record{
				Source:  res.src.String(),
				Key:     res.dec.Key(),
				Lines:   res.src.LineCount(),
				Decoded: text,
			})
			if err != nil {
				return err
			}
			logger.Info("journaled", "name", res.name, "id", id)
		}

		if len(results) > 1 {
			fmt.Printf("==> %s <==\n", res.name)
		}
		if text != "" {
			fmt.Println(text)
		}
	}

	return nil
}

func main() {
	configFile := flag.String("config", "", "YAML config file")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "Usage: decode [-config file] <key> [file...]")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var c config.Config
	if *configFile != "" {
		var err error
		c, err = config.Load(ctx, *configFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "config:", err)
			os.Exit(1)
		}
	}

	ctx = ctxlog.Setup(ctx, "decode", c.Log)

	logger := ctxlog.Get(ctx)

	err := run(ctx, c, flag.Arg(0), flag.Args()[1:])
	if err != nil {
		logger.Error("decode failed", "error", err)
		os.Exit(1)
	}
}
