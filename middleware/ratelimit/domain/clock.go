package domain

import "time"

// Clock é a fonte de tempo usada pelos gates.
type Clock interface {
	Now() time.Time
}
