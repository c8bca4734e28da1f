package category

// builtinCategories is the taxonomy used when no categories file is found.
const builtinCategories = `# Expense Categories

## Personal Expenses
- Food & Dining
  - Restaurants
  - Groceries
  - Coffee Shops
- Transportation
  - Public Transit
  - Fuel
  - Parking
- Shopping
  - Clothing
  - Electronics
  - Online
- Entertainment
- Health & Wellness
  - Pharmacy
  - Medical

## Home & Utilities
- Housing
  - Rent
  - Mortgage
- Utilities
  - Electricity
  - Water
  - Internet
- Maintenance

## Financial
- Banking
- Credit Cards
- Insurance
- Fees & Charges

## Other
- Income/Credit
- Travel
- Education
- Transfers
- Uncategorized
`
