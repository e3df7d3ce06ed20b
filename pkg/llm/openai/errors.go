package openai

import "errors"

var ErrEmptyCompletion = errors.New("completion returned no choices")
