//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/weegigs/wee-store-go/support"
)

func live(ctx context.Context, cfg support.Config) (*CounterServer, error) {
	panic(wire.Build(Live))
}

func local(ctx context.Context, cfg support.Config) (*CounterServer, error) {
	panic(wire.Build(Local))
}

func memory(cfg support.Config) *CounterServer {
	panic(wire.Build(Memory))
}
