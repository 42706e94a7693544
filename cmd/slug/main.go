// Package main is the entry point for slug.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"slug/internal/bench"
	"slug/internal/config"
	"slug/internal/logger"
)

var (
	version = "dev"
)

// maxLineSize は標準入力の1行の上限
const maxLineSize = 16 * 1024 * 1024

func main() {
	// フラグ定義
	var (
		configFile  = flag.String("config", "", "設定ファイルパス (YAML/JSON)")
		envFile     = flag.String("env", ".env", ".env ファイルパス (存在しなければ無視)")
		level       = flag.String("level", "", "しきい値 (trace, info, warn, error, fatal, none)")
		file        = flag.String("file", "", "出力ファイル (未指定ならコンソール)")
		encoding    = flag.String("encoding", "", "出力エンコーディング (utf8, wide, utf16, utf32)")
		at          = flag.String("at", "info", "標準入力の各行を出力するレベル")
		benchMode   = flag.Bool("bench", false, "並行ログ呼び出しのベンチマークを実行")
		workers     = flag.Int("workers", 0, "ベンチマークのワーカー数")
		messages    = flag.Int("messages", 0, "ワーカーあたりの呼び出し数")
		showVersion = flag.Bool("version", false, "バージョンを表示")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `slug - thread-safe leveled text logger

Usage:
  slug [options]

Options:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # 標準入力の各行を WARN で出力
  tail -f app.out | slug --at warn

  # ファイルへ追記
  slug --file /var/log/app.log --level trace < events.txt

  # 設定ファイルから
  slug --config slug.yaml

  # ベンチマーク
  slug --bench --workers 8 --messages 10000 --file bench.log
`)
	}

	flag.Parse()

	// 設定前のエラー出力用
	diag := logger.New(logger.LevelInfo)

	// バージョン表示
	if *showVersion {
		fmt.Printf("slug version %s\n", version)
		return
	}

	l, err := buildLogger(*configFile, *envFile, *level, *file, *encoding)
	if err != nil {
		diag.Error("設定エラー: ", err)
		os.Exit(1)
	}

	if *benchMode {
		err = runBench(l, *at, *workers, *messages)
	} else {
		err = runPipe(l, *at, os.Stdin)
	}
	if cerr := l.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		diag.Error(err)
		os.Exit(1)
	}
}

// buildLogger は 設定ファイル < 環境変数 < フラグ の順で設定を重ねてロガーを作る
func buildLogger(configFile, envFile, level, file, encoding string) (*logger.Logger, error) {
	cfg := &config.FileConfig{}

	if configFile != "" {
		fileConfig, err := config.LoadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("設定ファイル読み込みエラー: %w", err)
		}
		cfg = cfg.Merge(fileConfig)
	}

	envConfig, err := config.LoadEnv(envFile)
	if err != nil {
		return nil, fmt.Errorf("環境変数読み込みエラー: %w", err)
	}
	cfg = cfg.Merge(envConfig)

	cfg = cfg.Merge(&config.FileConfig{
		Logger: config.LoggerConfig{
			Level:    level,
			File:     file,
			Encoding: encoding,
		},
	})

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定検証エラー: %w", err)
	}
	return cfg.Build(os.Stderr)
}

// parseMessageLevel はメッセージ用のレベルをパースする
func parseMessageLevel(s string) (logger.Level, error) {
	lvl, err := logger.ParseLevel(s)
	if err != nil {
		return lvl, err
	}
	if lvl >= logger.LevelNone {
		return lvl, fmt.Errorf("%s はメッセージレベルとして使えません", lvl)
	}
	return lvl, nil
}

// runPipe は r の各行を at レベルで出力する
func runPipe(l *logger.Logger, at string, r io.Reader) error {
	lvl, err := parseMessageLevel(at)
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		l.Log(lvl, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("入力読み込みエラー: %w", err)
	}
	return l.Err()
}

// runBench はベンチマークを実行して結果を表示する
func runBench(l *logger.Logger, at string, workers, messages int) error {
	cfg := bench.DefaultConfig()

	lvl, err := parseMessageLevel(at)
	if err != nil {
		return err
	}
	cfg.Level = lvl
	if workers > 0 {
		cfg.Workers = workers
	}
	if messages > 0 {
		cfg.Messages = messages
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// シグナルハンドリング
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(os.Stderr, "\n中断シグナルを受信、ベンチマークを終了中...")
			cancel()
		case <-ctx.Done():
		}
	}()

	fmt.Println("slug benchmark")
	fmt.Println("==============")
	fmt.Printf("Workers: %d, Messages/worker: %d, Level: %s\n", cfg.Workers, cfg.Messages, cfg.Level)
	fmt.Println()

	snap, err := bench.Run(ctx, l, cfg)
	fmt.Print(snap.Report())
	return err
}
