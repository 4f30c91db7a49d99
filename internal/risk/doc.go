// Package risk holds the predictive side of the pipeline: a random forest
// forecasting company incident months from lagged history, and a balanced
// logistic regression scoring account-compromise risk per user from login
// behaviour signals.
package risk
