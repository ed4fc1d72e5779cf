package config

import (
	"errors"
	"strings"
)

var errMultiStringSetEmptyValue = errors.New("value cannot be empty")

const defaultSeparator = ","

// MultiStringFlag is a flag.Value that may be repeated, each value may
// itself hold several elements joined by the separator.
//
// e.g.: -redirect "/docs:/docs/" -redirect "/a:/b, /c:/d:302"
type MultiStringFlag struct {
	value     []string
	separator string
}

// String returns the raw values joined by the separator
func (s *MultiStringFlag) String() string {
	return strings.Join(s.value, s.sep())
}

// Set appends the value to the list of parameters
func (s *MultiStringFlag) Set(value string) error {
	if value == "" {
		return errMultiStringSetEmptyValue
	}

	s.value = append(s.value, value)
	return nil
}

// Split returns every element of every value, trimmed. Blank elements,
// as in "a,,b" or a trailing separator, are dropped.
func (s *MultiStringFlag) Split() []string {
	var result []string

	for _, str := range s.value {
		for _, element := range strings.Split(str, s.sep()) {
			if element = strings.TrimSpace(element); element != "" {
				result = append(result, element)
			}
		}
	}

	return result
}

func (s *MultiStringFlag) sep() string {
	if s.separator == "" {
		return defaultSeparator
	}

	return s.separator
}

// Len returns how many times the flag was given
func (s *MultiStringFlag) Len() int {
	return len(s.value)
}
