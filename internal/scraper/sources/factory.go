package sources

import "log/slog"

// Factory builds sources with the shared logger and crawler identity baked
// in, so request handlers only choose where the page comes from.
type Factory struct {
	logger    *slog.Logger
	userAgent string
}

func NewFactory(logger *slog.Logger, userAgent string) *Factory {
	return &Factory{logger: logger, userAgent: userAgent}
}

func (f *Factory) FromURL(url string) Source {
	return NewLive(f.logger, url, f.userAgent)
}

func (f *Factory) FromFile(path string) Source {
	return NewFile(f.logger, path)
}
