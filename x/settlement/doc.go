/*
Package settlement implements splitting of a single marketplace payment
between the fee collector, the royalty entitled creators, an optional buy
side rebate recipient and the payment target.

A payment is settled by a single SettleMsg. The handler computes an
itemized distribution plan using only checked integer arithmetic and then
moves the funds in a fixed order: creators first, then the buy side
rebate, then the fee collector, then the target. Either every transfer of
a settlement is applied or none is; this is guaranteed by the transaction
delivery, not by this package.

Fees are configured through a gconf managed Configuration singleton. The
royalty information for a token is resolved through the x/royalty
extension. A token without a royalty record settles without any creator
payouts.
*/
package settlement
