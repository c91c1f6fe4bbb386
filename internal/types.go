package internal

import "context"

type Configurer interface {
	Configure(envs map[string]string) error
}

type Opener interface {
	Open(ctx context.Context) error
	Closer
}

type Closer interface {
	Close(ctx context.Context) error
}

type Clearer interface {
	Clear(ctx context.Context) error
}

// Loader is implemented by anything that populates itself from the
// backend when it's first displayed (i.e. the views).
type Loader interface {
	Load(ctx context.Context) error
}
