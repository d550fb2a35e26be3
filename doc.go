// Package taxcalc computes Polish tax liabilities on equity trades and
// dividends from Trading212 transaction records. It is designed to be
// local-first and auditable: every figure on the final forms can be traced
// back to the transactions that produced it.
//
// The core functionalities include:
//   - Transaction Model: typed buy, sell and dividend records carrying the
//     trade currency amounts, the NBP exchange rate and the derived PLN values.
//   - Position Ledger: a per-ticker queue of open purchase lots, kept in
//     chronological order for First-In-First-Out consumption.
//   - FIFO Matcher: resolves each sale against the open lots, emitting match
//     records that conserve both share quantity and PLN sale value exactly.
//   - Dividend Aggregation: groups dividend withholding credits by country of
//     source and reconciles them against the flat domestic dividend tax.
//   - Tax Report: compiles the matched sales and dividend summaries into
//     PIT-38 and PIT/ZG form data.
//
// All monetary and quantity arithmetic uses decimal arithmetic; binary
// floating point never enters a tax figure. This package serves as the
// foundational logic for the `t212tax` command-line tool.
package taxcalc
