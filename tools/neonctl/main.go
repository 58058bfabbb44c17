package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/kosmonet/neon-sub001/internal/agent"
	"github.com/kosmonet/neon-sub001/internal/version"
	"github.com/kosmonet/neon-sub001/pkg/api"
	"github.com/kosmonet/neon-sub001/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		return
	}

	switch os.Args[1] {
	case "today":
		fmt.Println(time.Now().UTC().Format("2006-01-02"))
	case "buildid":
		version.BuildDate = time.Now().UTC().Format("2006-01-02")
		if len(os.Args) > 2 {
			version.BuildDate = os.Args[2]
		}
		id, err := version.CalculateBuildID()
		if err != nil {
			fmt.Printf("Invalid date: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(id)
	case "watch":
		if len(os.Args) < 3 {
			fmt.Println("Usage: neonctl watch <ws_url> [x y w h]")
			return
		}
		if err := watch(os.Args[2], os.Args[3:]); err != nil {
			fmt.Printf("Watch failed: %v\n", err)
			os.Exit(1)
		}
	default:
		printHelp()
	}
}

// watch печатает каждый кадр потока одной строкой
func watch(url string, rect []string) error {
	logger.Init()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	w, err := agent.Dial(ctx, url)
	if err != nil {
		return err
	}
	defer w.Close()

	if len(rect) == 4 {
		var v [4]int
		for i, s := range rect {
			if v[i], err = strconv.Atoi(s); err != nil {
				return fmt.Errorf("bad area %q: %w", s, err)
			}
		}
		if err := w.View(api.AreaPayload{X: v[0], Y: v[1], W: v[2], H: v[3]}); err != nil {
			return err
		}
	}

	return w.Run(ctx, func(f api.ServerResponse) {
		if f.Type == api.TypeError {
			fmt.Printf("error: %s\n", f.Error)
			return
		}
		fmt.Printf("tick=%d area=%v entities=%d known=%d\n", f.Tick, *f.Area, len(f.Entities), w.Mirror.Len())
	})
}

func printHelp() {
	fmt.Println(`Neon Control - утилиты сервера карт
Commands:
  today                          - текущая дата UTC для -ldflags BuildDate
  buildid [YYYY-MM-DD]           - номер сборки для даты (по умолчанию сегодня)
  watch <ws_url> [x y w h]       - подключиться к потоку /ws и печатать кадры`)
}
