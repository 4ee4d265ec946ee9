package output

// DefaultAssumptions lists the modeling rules rendered in detailed outputs.
var DefaultAssumptions = []string{
	"Credit is re-indexed by the annual update rate at months 13, 25, 37, ... until contemplation",
	"After contemplation the post-contemplation adjustment applies every month and again on annual marks",
	"The embedded bid is deducted once from the accessed credit in the contemplation month",
	"Fees after contemplation are charged on the accessed credit at contemplation",
	"Installments after contemplation spread the outstanding balance over the remaining months",
	"Capital gain assumes the quota is resold for the ágio percentage of the accessed credit",
}
