/*
Package markov implements an order-1 Markov chain over MIDI notes.

A Chain maps a State (the start of a track, or the previously played note)
to every note observed after it, together with how often it was observed.
Chains are built incrementally with Record, frozen once training is done, and
then sampled with Next. Sampling is frequency weighted and reproducible for a
given *rand.Rand seed.
*/
package markov
