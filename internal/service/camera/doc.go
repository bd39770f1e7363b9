// Package camera decides whether a camera image contains a cat.
//
// The Classifier interface is the only thing the security engine depends on.
// FakeClassifier stands in for a real recognition service and Load decodes
// snapshots from disk.
package camera
