package llm

import "context"

// RequestProfile carries optional per-request sampling options.
type RequestProfile struct {
	Temperature *float64
	NumCtx      int
}

// Options renders the profile as an Ollama options map; nil when empty.
func (p RequestProfile) Options() map[string]any {
	opts := map[string]any{}
	if p.Temperature != nil {
		opts["temperature"] = *p.Temperature
	}
	if p.NumCtx > 0 {
		opts["num_ctx"] = p.NumCtx
	}
	if len(opts) == 0 {
		return nil
	}
	return opts
}

type requestProfileContextKey struct{}

func WithRequestProfile(ctx context.Context, profile RequestProfile) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestProfileContextKey{}, profile)
}

func RequestProfileFromContext(ctx context.Context) (RequestProfile, bool) {
	if ctx == nil {
		return RequestProfile{}, false
	}
	profile, ok := ctx.Value(requestProfileContextKey{}).(RequestProfile)
	if !ok {
		return RequestProfile{}, false
	}
	return profile, true
}
