package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestStatus(t *testing.T) {
	cases := map[string]struct {
		status   Status
		expected string
	}{
		"zero":   {Status{}, "exit status was 0"},
		"exited": {Exited(3), "exit status was 3"},
		"killed": {Killed(9), "terminated by signal 9"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.status.String())
		})
	}
}

func TestFromWaitStatus(t *testing.T) {
	// Linux encodes the exit code in the second byte and the terminating
	// signal in the low seven bits.
	assert.Equal(t, Exited(0), FromWaitStatus(unix.WaitStatus(0)))
	assert.Equal(t, Exited(2), FromWaitStatus(unix.WaitStatus(2<<8)))
	assert.Equal(t, Killed(int(unix.SIGTERM)), FromWaitStatus(unix.WaitStatus(unix.SIGTERM)))
}
