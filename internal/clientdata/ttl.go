package clientdata

import "time"

// TTLExplanation is the default lifetime of a cached explanation.
// Explanations for past days never change once written; the TTL only bounds
// how long a regenerated artifact can be shadowed.
const TTLExplanation = 6 * time.Hour

// StaleRetention is how long an expired explanation is kept after expiry.
// Until then it can still be served when the artifact store is unreachable.
const StaleRetention = 7 * 24 * time.Hour
