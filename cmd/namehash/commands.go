package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/pflag"

	"github.com/supleed2/namehash/batch"
	"github.com/supleed2/namehash/config"
	"github.com/supleed2/namehash/index"
	"github.com/supleed2/namehash/log"
	"github.com/supleed2/namehash/namehash"
)

func runDomain(args []string, stdout io.Writer) error {
	fs := pflag.NewFlagSet("domain", pflag.ContinueOnError)
	var g globalFlags
	g.add(fs)
	indexDir := fs.String("index", "", "pebble directory to record digest -> domain in")
	if help, err := parseFlags(fs, args, stdout); help || err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usagef("domain: expected exactly one domain, got %d", fs.NArg())
	}
	cfg, err := config.Resolve(g.configPath)
	if err != nil {
		return err
	}
	if fs.Changed("index") {
		cfg.Index = *indexDir
	}
	if err := initLogging(fs, &g, cfg); err != nil {
		return err
	}

	name := fs.Arg(0)
	d := namehash.Sum(name)
	if cfg.Index != "" {
		store, err := index.Open(cfg.Index)
		if err != nil {
			return err
		}
		if err := store.Put(name, d); err != nil {
			store.Close()
			return fmt.Errorf("index %q: %w", name, err)
		}
		if err := store.Close(); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintln(stdout, batch.Format(name, d))
	return err
}

func runFile(args []string, stdout io.Writer) error {
	fs := pflag.NewFlagSet("file", pflag.ContinueOnError)
	var g globalFlags
	g.add(fs)
	output := fs.StringP("output", "o", "", "file to save hashes to, stdout if not given")
	workers := fs.Int("workers", 0, "hashing goroutines (default: GOMAXPROCS)")
	cacheSize := fs.Int("cache", 0, "parent digests to cache, 0 disables")
	indexDir := fs.String("index", "", "pebble directory to record digest -> domain in")
	if help, err := parseFlags(fs, args, stdout); help || err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usagef("file: expected one input path, got %d", fs.NArg())
	}
	inputPath := fs.Arg(0)

	cfg, err := config.Resolve(g.configPath)
	if err != nil {
		return err
	}
	if fs.Changed("workers") {
		cfg.Workers = *workers
	}
	if fs.Changed("cache") {
		cfg.CacheSize = *cacheSize
	}
	if fs.Changed("index") {
		cfg.Index = *indexDir
	}
	if err := initLogging(fs, &g, cfg); err != nil {
		return err
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	hash := namehash.Sum
	var cache *namehash.Cache
	if cfg.CacheSize > 0 {
		cache, err = namehash.NewCache(cfg.CacheSize)
		if err != nil {
			return err
		}
		hash = cache.Sum
	}

	var out batch.Output
	var fileOut *batch.FileOutput
	if *output == "" {
		out = batch.NewStreamOutput(stdout)
	} else {
		fileOut = batch.NewFileOutput(*output)
		out = fileOut
	}

	var store *index.Store
	var idx *index.Writer
	if cfg.Index != "" {
		store, err = index.Open(cfg.Index)
		if err != nil {
			return err
		}
		defer store.Close()
		idx = store.NewWriter()
		logIndexSize(store, cfg.Index, "recording digests")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	done := log.Benchmark("file")
	var hashed, skipped int
	err = batch.Run(ctx, in, batch.Options{Workers: cfg.Workers, Hash: hash}, func(r batch.Result) error {
		if r.Err != nil {
			skipped++
			log.Batch.Error().Err(r.Err).Str("input", inputPath).Int("line", r.Line).Msg("skipping line")
			return nil
		}
		hashed++
		if idx != nil {
			if err := idx.Put(r.Domain, r.Digest); err != nil {
				return fmt.Errorf("index line %d: %w", r.Line, err)
			}
		}
		return out.Add(r.Domain, r.Digest)
	})
	if idx != nil {
		if cerr := idx.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return err
	}
	if store != nil {
		logIndexSize(store, cfg.Index, "index updated")
	}
	if fileOut != nil {
		log.Batch.Debug().Str("output", *output).Int("bytes", fileOut.Len()).Msg("writing results")
	}
	if err := out.Close(); err != nil {
		return err
	}
	done()

	ev := log.Batch.Debug().
		Int("hashed", hashed).
		Int("skipped", skipped).
		Int("workers", cfg.Workers)
	if cache != nil {
		st := cache.Stats()
		ev = ev.Uint64("cache_hits", st.Hits).Uint64("cache_misses", st.Misses)
	}
	ev.Msg("batch complete")
	return nil
}

func logIndexSize(store *index.Store, dir, msg string) {
	n, err := store.Len()
	if err != nil {
		log.Index.Warn().Err(err).Str("dir", dir).Msg("counting index entries")
		return
	}
	log.Index.Debug().Str("dir", dir).Int("entries", n).Msg(msg)
}

func runVerify(args []string, stdout io.Writer) error {
	fs := pflag.NewFlagSet("verify", pflag.ContinueOnError)
	var g globalFlags
	g.add(fs)
	quiet := fs.BoolP("quiet", "q", false, "only print the summary")
	if help, err := parseFlags(fs, args, stdout); help || err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usagef("verify: expected one results path, got %d", fs.NArg())
	}
	path := fs.Arg(0)
	cfg, err := config.Resolve(g.configPath)
	if err != nil {
		return err
	}
	if err := initLogging(fs, &g, cfg); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open results: %w", err)
	}
	defer f.Close()

	st, err := batch.Verify(f, nil, func(c batch.Check) error {
		switch {
		case c.Err != nil:
			log.Batch.Error().Err(c.Err).Str("input", path).Int("line", c.Line).Msg("unparsable line")
		case !c.OK() && !*quiet:
			_, err := fmt.Fprintf(stdout, "line %d: %s: recorded %s, expected %s\n", c.Line, c.Domain, c.Got.Hex(), c.Want.Hex())
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "checked %d lines: %d mismatches, %d unparsable\n", st.Total, st.Mismatches, st.Errors)
	if st.Mismatches > 0 {
		return errMismatch
	}
	return nil
}

func runLookup(args []string, stdout io.Writer) error {
	fs := pflag.NewFlagSet("lookup", pflag.ContinueOnError)
	var g globalFlags
	g.add(fs)
	indexDir := fs.String("index", "", "pebble directory written by 'namehash file --index'")
	if help, err := parseFlags(fs, args, stdout); help || err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usagef("lookup: expected one namehash, got %d", fs.NArg())
	}
	d, err := namehash.ParseHex(fs.Arg(0))
	if err != nil {
		return usagef("lookup: %v", err)
	}
	cfg, err := config.Resolve(g.configPath)
	if err != nil {
		return err
	}
	if fs.Changed("index") {
		cfg.Index = *indexDir
	}
	if cfg.Index == "" {
		return usagef("lookup: --index is required")
	}
	if err := initLogging(fs, &g, cfg); err != nil {
		return err
	}

	store, err := index.Open(cfg.Index)
	if err != nil {
		return err
	}
	defer store.Close()

	domain, err := store.Lookup(d)
	if errors.Is(err, index.ErrNotFound) {
		return fmt.Errorf("%s: %w", d.Hex(), err)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, batch.Format(domain, d))
	return err
}
