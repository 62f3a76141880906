//go:build tinygo

package main

import (
	"orbit/app"
	"orbit/hal"
)

func main() {
	app.Run(hal.New(), app.Config{Workers: 1, FrameEvery: 33})
}
