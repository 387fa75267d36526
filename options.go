package stegimg

// Option adjusts non-protocol behavior of the hide and extract
// entry points.
type Option func(*settings) error

type settings struct {
	textFilename string
	trials       []Method
}

func newSettings(opts []Option) (settings, error) {
	s := settings{textFilename: DefaultTextFilename}
	for _, opt := range opts {
		if err := opt(&s); err != nil {
			return s, err
		}
	}
	return s, nil
}

// WithTextFilename sets the filename recorded in the header for text
// payloads. Names longer than 64 bytes are truncated during header
// serialization.
func WithTextFilename(name string) Option {
	return func(s *settings) error {
		s.textFilename = name
		return nil
	}
}

// WithTrialMethods restricts blind detection to the given methods,
// tried in the given order. Extraction of an image embedded with a
// method outside the list fails with ErrNoValidHeader.
func WithTrialMethods(methods ...Method) Option {
	return func(s *settings) error {
		for _, m := range methods {
			if !m.Valid() {
				return errUnknownMethod(m)
			}
		}
		s.trials = methods
		return nil
	}
}
