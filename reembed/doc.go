// Package reembed regenerates the vectors of every stored LAQ item with the
// currently configured embedding model. Needed after switching models, since
// cosine ranking only makes sense when all vectors come from one model.
package reembed
