package cache

import (
	"errors"
	"sync"
	"testing"

	"github.com/matryer/is"
)

func TestLoadOnce(t *testing.T) {
	is := is.New(t)
	calls := 0
	loader := func(key string) (any, error) {
		calls++
		return "value-for-" + key, nil
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			obj, err := Load("test:once", loader)
			is.NoErr(err)
			is.Equal(obj.(string), "value-for-test:once")
		}()
	}
	wg.Wait()
	is.Equal(calls, 1)
}

func TestLenDuringLoad(t *testing.T) {
	is := is.New(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = Len()
		}()
		go func() {
			defer wg.Done()
			_, err := Load("test:len", func(string) (any, error) { return 1, nil })
			is.NoErr(err)
		}()
	}
	wg.Wait()
	is.True(Len() >= 1)
}

func TestFailedLoadNotCached(t *testing.T) {
	is := is.New(t)
	fail := true
	loader := func(key string) (any, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return 42, nil
	}
	_, err := Load("test:fail", loader)
	is.True(err != nil)
	fail = false
	obj, err := Load("test:fail", loader)
	is.NoErr(err)
	is.Equal(obj.(int), 42)
}
