package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("USERHUB_TEST_MODE") == "" {
			_ = os.Setenv("USERHUB_TEST_MODE", "1")
		}
	})
}
