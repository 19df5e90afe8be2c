package portalfakes

import (
	"sync"

	"github.com/feltops/clubportal/portal"
)

var _ portal.Toaster = (*ToastRecorder)(nil)

// ToastRecorder captures toasts for assertions.
type ToastRecorder struct {
	lock      sync.Mutex
	successes []string
	errors    []string
}

func NewToastRecorder() *ToastRecorder {
	return &ToastRecorder{}
}

func (tr *ToastRecorder) Success(msg string) {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	tr.successes = append(tr.successes, msg)
}

func (tr *ToastRecorder) Error(msg string) {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	tr.errors = append(tr.errors, msg)
}

func (tr *ToastRecorder) Successes() []string {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	return append([]string(nil), tr.successes...)
}

func (tr *ToastRecorder) Errors() []string {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	return append([]string(nil), tr.errors...)
}
