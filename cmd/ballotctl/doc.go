// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Ballotctl is the command-line client for the voting server and login
portal.

	ballotctl keygen -name "Election Authority" -out ./keys
	ballotctl register -portal http://localhost:7878 -identity BE-001 -key voter.asc
	ballotctl vote -server http://localhost:7879 -party Reform -candidate "A. Smith"
	ballotctl tally -server http://localhost:7879

vote picks a random nonce unless -nonce is given; submitting the same nonce
twice is accepted by the server but counted once.
*/
package main
