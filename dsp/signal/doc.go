// Package signal provides test and conditioning signals for the speaker
// manager.
package signal
