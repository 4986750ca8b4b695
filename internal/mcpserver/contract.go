package mcpserver

// CSVFormatContract describes the CSV layout accepted by import_csv and the
// HTTP import endpoints.
const CSVFormatContract = `# Salesdesk CSV Import Format

Two kinds of file can be merged: clients and products.

## Clients

` + "```" + `csv
name,address,phone,email
Blue Door Cafe,12 Elm Street,555-0100,orders@bluedoor.test
` + "```" + `

All four fields are required. Rows with a blank field are dropped.

## Products

` + "```" + `csv
name,description,unit
Capers,Brined capers in 1kg jars,case
` + "```" + `

All three fields are required. ` + "`unit`" + ` must be ` + "`case`" + ` or ` + "`pk`" + ` (any case,
surrounding spaces ignored). Rows with another unit are dropped.

## Rules

1. **The first line is always skipped**, whatever it contains.
2. **Fields are split on every comma.** Quoting is not supported: a value
   containing a comma shifts the remaining fields and usually gets the row
   dropped. Replace commas inside values before exporting.
3. Each field is trimmed. Extra fields are ignored; missing fields are blank.
4. Blank lines count as dropped rows.
5. Imports only append. Existing records are never updated or matched, so
   importing the same file twice creates duplicates.
6. The result reports how many rows were merged and how many were dropped.
`
