package repository

// Schema returns the DDL applied at startup. ReplacingMergeTree keys give
// upsert-by-key semantics: re-ingested rows collapse to the newest version
// at merge time, and readers query with FINAL.
func Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS stock_info (
            ticker       String,
            name         String,
            market       String,
            industry     String,
            sector       String,
            data_source  String,
            is_test_data UInt8,
            created_at   DateTime,
            updated_at   DateTime
        ) ENGINE = ReplacingMergeTree(updated_at)
        ORDER BY ticker`,

		`CREATE TABLE IF NOT EXISTS stock_daily (
            ticker       String,
            trade_date   String,
            open_price   Float64,
            high_price   Float64,
            low_price    Float64,
            close_price  Float64,
            volume       Int64,
            turnover     Float64,
            pe_ratio     Float64,
            pb_ratio     Float64,
            market_cap   Float64,
            is_test_data UInt8,
            created_at   DateTime
        ) ENGINE = ReplacingMergeTree(created_at)
        ORDER BY (ticker, trade_date)`,

		`CREATE TABLE IF NOT EXISTS ai_analyses (
            user_id          String,
            ticker           String,
            analysis_type    String,
            recommendation   String,
            confidence_score Float64,
            overall_score    Nullable(Int32),
            risk_level       String,
            analysis_text    String,
            created_at       DateTime
        ) ENGINE = MergeTree
        ORDER BY (user_id, created_at)`,

		`CREATE TABLE IF NOT EXISTS market_indices (
            code           String,
            name           String,
            price          Float64,
            change         Float64,
            change_percent Float64,
            volume         Int64,
            turnover       Float64,
            is_test_data   UInt8,
            data_source    String,
            update_time    DateTime
        ) ENGINE = ReplacingMergeTree(update_time)
        ORDER BY code`,
	}
}
