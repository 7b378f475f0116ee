// Package config defines the user configuration of the speaker manager:
// processing groups, crossovers, thresholds, routing, equalizers and
// detection settings.
//
// A [UserConfiguration] is a plain value. It is validated as a whole by
// [UserConfiguration.Validate], resolved into real-time parameters by the
// runtime package and superseded wholesale by a newer instance. JSON is
// the on-disk representation; [Load] and [Parse] start from [Default] so a
// document only needs the fields it changes.
package config
