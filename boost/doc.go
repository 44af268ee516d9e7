// Package boost implements gradient-boosted decision trees for binary
// classification.
//
// Training minimizes logistic loss by adding depth-limited regression
// trees: each round fits a tree to the running gradients and hessians
// and folds its predictions into the score at the learning rate. Split
// quality and leaf values use second-order gains with L2 regularization.
//
// # Basic Usage
//
//	cfg := boost.DefaultConfig()
//	cfg.Rounds = 100
//	cfg.Workers = 4
//
//	model := boost.New(cfg)
//	if err := model.Fit(table.X, table.Y); err != nil {
//	    log.Fatal(err)
//	}
//
//	accuracy, err := model.Score(test.X, test.Y)
//
// # Worker Invariance
//
// Config.Workers sizes the pool that searches features for the best
// split. The per-feature search is sequential and the merge is a fold
// in feature order under a total order (gain, then feature index, then
// threshold), so the fitted model is bit-for-bit identical for any
// worker count. Only the wall-clock time of Fit changes, which is what
// bench.Sweep observes.
package boost
