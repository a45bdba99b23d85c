// Command demo runs a small traffic-light chart through a few cycles,
// logging every transition and printing a DOT snapshot at the end.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joinchart/joinchart"
	"github.com/joinchart/joinchart/export"
	"github.com/joinchart/joinchart/reply"
)

type timerEvent struct{}

func main() {
	b := joinchart.NewBuilder().Top("traffic")
	b.Composite("traffic", "Traffic", "", "red", "red", "green", "yellow")

	red := b.Simple("red", "Red", "traffic")
	joinchart.OnEvent(red, func(ctx *joinchart.Context, e timerEvent) bool {
		ctx.Transit("green")
		return true
	})
	green := b.Simple("green", "Green", "traffic")
	joinchart.OnEvent(green, func(ctx *joinchart.Context, e timerEvent) bool {
		ctx.Transit("yellow")
		return true
	})
	yellow := b.Simple("yellow", "Yellow", "traffic")
	joinchart.OnEvent(yellow, func(ctx *joinchart.Context, e timerEvent) bool {
		ctx.Transit("red")
		return true
	})

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	chart, err := b.Build(joinchart.WithHooks(reply.SlogHooks(logger)))
	if err != nil {
		panic(err)
	}

	if err := chart.Initiate(); err != nil {
		panic(err)
	}

	for cycle := 1; cycle <= 6; cycle++ {
		chart.Process(timerEvent{})
		fmt.Printf("cycle %d: active = %v\n", cycle, chart.ActiveNodes())
	}

	fmt.Println(export.DOT(chart))
}
