/*
Package resilience provides a circuit breaker for resources that fail in
bursts, such as a log directory on a disk that filled up or disappeared.

# Usage

	breaker := resilience.New("log-dir", resilience.Settings{
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	err := breaker.Do(func() error {
		_, err := file.Write(p)
		return err
	})
	if errors.Is(err, resilience.ErrCircuitOpen) {
		// dropped without touching the disk
	}

# States

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                           |
	                                       [failure]
	                                           v
	                                          Open
*/
package resilience
