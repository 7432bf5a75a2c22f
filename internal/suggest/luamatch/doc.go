// Package luamatch lets suggestion matchers be written in Lua.
//
// A script defines a global function
//
//	function match(text)
//	  -- text is the plain text directly before the cursor
//	  return start, query, is_start
//	end
//
// start is the 1-based byte index in text where the match begins; nil means
// no match. The match always ends at the cursor. query defaults to the
// matched text and is_start to false.
//
// Scripts run in a restricted state: only the base, table, string and math
// libraries are opened and the file loading functions are removed. Each call
// is bounded by a timeout.
package luamatch
