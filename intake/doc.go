// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package intake drives a submitted ballot through decryption, replay
rejection and counting.

Each submission is independent: a ballot that fails to decode, decrypt or
parse is dropped without touching the nonce set or the tally, and a ballot
whose nonce was already consumed is discarded without changing any count.
Decryption runs outside of any lock and is bounded by a semaphore so that a
burst of submissions cannot pin every CPU.
*/
package intake
