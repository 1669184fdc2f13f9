package pipeline

// transactionPrompt instructs the model to structure one statement line.
const transactionPrompt = "You are a bank statement line parser.\n\n" +
	"Extract a JSON object with keys: date, description, amount, type (Debit/Credit).\n" +
	"Return ONLY the JSON object.\n" +
	"Do NOT wrap the response in code fences.\n" +
	"Do NOT use ```json or any Markdown.\n"

// invoicePrompt instructs the model to structure an attached invoice
// document (PDF or image).
const invoicePrompt = "You are a vendor invoice parser.\n\n" +
	"Extract a JSON object with keys: invoice_id, business_name, description, gstin, " +
	"taxable_amount, sgst_amount, cgst_amount, igst_amount, total_amount.\n" +
	"Return ONLY the JSON object.\n" +
	"Do NOT wrap the response in code fences.\n" +
	"Do NOT use ```json or any Markdown.\n"

// transactionLineInput frames a raw statement line as model input.
func transactionLineInput(line string) string {
	return "Transaction line: " + line
}
